package sharing

import (
	"context"
	"errors"
	"strings"
)

// Store describes the persistence operations the access controller needs.
// CreateGrant must run its ownership re-check, grantee resolution,
// duplicate check and insert as one atomic sequence so concurrent
// identical share calls cannot both succeed.
type Store interface {
	GrantExists(ctx context.Context, reportID, granteeUserID string) (bool, error)
	CreateGrant(ctx context.Context, ownerID, reportID, granteeEmail string, access AccessType) (ShareGrant, error)
	DeleteGrantOwnedBy(ctx context.Context, grantID, ownerID string) error
	GrantsForOwner(ctx context.Context, ownerID string) ([]OwnerGrant, error)
	GrantsForGrantee(ctx context.Context, granteeUserID string) ([]SharedReport, error)
}

// Controller is the authorization engine for report access: it decides
// who may read a report and manages share grants on behalf of owners.
type Controller struct {
	store Store
}

// NewController constructs the access controller.
func NewController(store Store) (*Controller, error) {
	if store == nil {
		return nil, errors.New("sharing: store is required")
	}
	return &Controller{store: store}, nil
}

// CanRead reports whether userID may read the report. Ownership is
// sufficient and is checked first without touching the store; a share
// grant is the only other path.
func (c *Controller) CanRead(ctx context.Context, userID string, report Report) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || report.ID == "" {
		return false, nil
	}
	if report.OwnerUserID == userID {
		return true, nil
	}
	return c.store.GrantExists(ctx, report.ID, userID)
}

// Share creates a grant delegating read access on a report to the user
// registered under granteeEmail. Ownership is re-verified against the
// stored report on every call. Failure order: ErrReportNotFound,
// ErrNotOwner, ErrGranteeNotFound, ErrAlreadyShared.
func (c *Controller) Share(ctx context.Context, ownerID, reportID, granteeEmail, accessLabel string) (ShareGrant, error) {
	ownerID = strings.TrimSpace(ownerID)
	reportID = strings.TrimSpace(reportID)
	granteeEmail = strings.TrimSpace(strings.ToLower(granteeEmail))
	if ownerID == "" || reportID == "" || granteeEmail == "" {
		return ShareGrant{}, ErrReportNotFound
	}
	access, err := ParseAccessType(accessLabel)
	if err != nil {
		return ShareGrant{}, err
	}
	return c.store.CreateGrant(ctx, ownerID, reportID, granteeEmail, access)
}

// Revoke deletes a grant. Ownership is verified by joining the grant to
// its report; a grant that does not exist and a grant on someone else's
// report are both ErrGrantNotFound, so a second revoke of the same id is
// indistinguishable from revoking a grant that never existed.
func (c *Controller) Revoke(ctx context.Context, ownerID, grantID string) error {
	ownerID = strings.TrimSpace(ownerID)
	grantID = strings.TrimSpace(grantID)
	if ownerID == "" || grantID == "" {
		return ErrGrantNotFound
	}
	return c.store.DeleteGrantOwnedBy(ctx, grantID, ownerID)
}

// ListGrantsForOwner returns every active grant on reports owned by ownerID.
func (c *Controller) ListGrantsForOwner(ctx context.Context, ownerID string) ([]OwnerGrant, error) {
	return c.store.GrantsForOwner(ctx, ownerID)
}

// ListSharedWith returns every report shared with the given user.
func (c *Controller) ListSharedWith(ctx context.Context, granteeUserID string) ([]SharedReport, error) {
	return c.store.GrantsForGrantee(ctx, granteeUserID)
}
