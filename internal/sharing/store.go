package sharing

import (
	"context"
	"sort"
	"sync"
	"time"

	"healthwallet.org/internal/ids"
)

// Directory resolves reports and users for the in-memory store. The
// Postgres store does these lookups with joins; in memory they are
// delegated to whatever owns the report and user records.
type Directory interface {
	ReportByID(ctx context.Context, id string) (Report, bool)
	UserByEmail(ctx context.Context, email string) (UserRef, bool)
	UserByID(ctx context.Context, id string) (UserRef, bool)
}

// InMemory is a map-backed grant store used by tests and local runs.
type InMemory struct {
	mu     sync.RWMutex
	grants map[string]ShareGrant
	dir    Directory
	now    func() time.Time
}

// NewInMemory constructs an empty in-memory grant store backed by dir.
func NewInMemory(dir Directory) *InMemory {
	return &InMemory{
		grants: make(map[string]ShareGrant),
		dir:    dir,
		now:    time.Now,
	}
}

func (m *InMemory) GrantExists(ctx context.Context, reportID, granteeUserID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.grants {
		if g.ReportID == reportID && g.GranteeUserID == granteeUserID {
			return true, nil
		}
	}
	return false, nil
}

func (m *InMemory) CreateGrant(ctx context.Context, ownerID, reportID, granteeEmail string, access AccessType) (ShareGrant, error) {
	report, ok := m.dir.ReportByID(ctx, reportID)
	if !ok {
		return ShareGrant{}, ErrReportNotFound
	}
	if report.OwnerUserID != ownerID {
		return ShareGrant{}, ErrNotOwner
	}
	grantee, ok := m.dir.UserByEmail(ctx, granteeEmail)
	if !ok {
		return ShareGrant{}, ErrGranteeNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.grants {
		if g.ReportID == reportID && g.GranteeUserID == grantee.ID {
			return ShareGrant{}, ErrAlreadyShared
		}
	}
	grant := ShareGrant{
		ID:            ids.New(),
		ReportID:      reportID,
		GranteeUserID: grantee.ID,
		Access:        access,
		GrantedAt:     m.now().UTC(),
	}
	m.grants[grant.ID] = grant
	return grant, nil
}

func (m *InMemory) DeleteGrantOwnedBy(ctx context.Context, grantID, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	grant, ok := m.grants[grantID]
	if !ok {
		return ErrGrantNotFound
	}
	report, found := m.dir.ReportByID(ctx, grant.ReportID)
	if !found || report.OwnerUserID != ownerID {
		return ErrGrantNotFound
	}
	delete(m.grants, grantID)
	return nil
}

func (m *InMemory) GrantsForOwner(ctx context.Context, ownerID string) ([]OwnerGrant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]OwnerGrant, 0)
	for _, g := range m.grants {
		report, ok := m.dir.ReportByID(ctx, g.ReportID)
		if !ok || report.OwnerUserID != ownerID {
			continue
		}
		item := OwnerGrant{ShareGrant: g, ReportName: report.OriginalName}
		if grantee, ok := m.dir.UserByID(ctx, g.GranteeUserID); ok {
			item.GranteeEmail = grantee.Email
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GrantedAt.After(out[j].GrantedAt) })
	return out, nil
}

func (m *InMemory) GrantsForGrantee(ctx context.Context, granteeUserID string) ([]SharedReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SharedReport, 0)
	for _, g := range m.grants {
		if g.GranteeUserID != granteeUserID {
			continue
		}
		report, ok := m.dir.ReportByID(ctx, g.ReportID)
		if !ok {
			continue
		}
		item := SharedReport{
			ShareGrant:   g,
			Filename:     report.Filename,
			OriginalName: report.OriginalName,
			ReportType:   report.ReportType,
			ReportDate:   report.Date,
		}
		if owner, ok := m.dir.UserByID(ctx, report.OwnerUserID); ok {
			item.OwnerUsername = owner.Username
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GrantedAt.After(out[j].GrantedAt) })
	return out, nil
}
