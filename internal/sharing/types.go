package sharing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrReportNotFound    = errors.New("sharing: report not found")
	ErrNotOwner          = errors.New("sharing: report not owned by caller")
	ErrGranteeNotFound   = errors.New("sharing: grantee not found")
	ErrAlreadyShared     = errors.New("sharing: report already shared with this user")
	ErrGrantNotFound     = errors.New("sharing: grant not found")
	ErrUnsupportedAccess = errors.New("sharing: unsupported access type")
)

// AccessType enumerates grant access levels. Only read access exists
// today; keeping the type closed means an unknown label is rejected at
// the boundary instead of silently stored.
type AccessType string

// AccessRead grants read-only access to a single report.
const AccessRead AccessType = "read"

// ParseAccessType maps a request label to an AccessType. An empty label
// defaults to read.
func ParseAccessType(label string) (AccessType, error) {
	switch strings.TrimSpace(strings.ToLower(label)) {
	case "", string(AccessRead):
		return AccessRead, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAccess, label)
	}
}

// Report is the read-only view of a report the sharing core needs: its
// identity and its owner, plus display metadata carried through listings.
type Report struct {
	ID           string `json:"id"`
	OwnerUserID  string `json:"owner_user_id"`
	Filename     string `json:"filename,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
	ReportType   string `json:"report_type,omitempty"`
	Date         string `json:"date,omitempty"`
}

// UserRef is the minimal user view needed to resolve grantees.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ShareGrant delegates read access on one report to one user. At most one
// grant exists per (report, grantee) pair.
type ShareGrant struct {
	ID            string     `json:"id"`
	ReportID      string     `json:"report_id"`
	GranteeUserID string     `json:"grantee_user_id"`
	Access        AccessType `json:"access_type"`
	GrantedAt     time.Time  `json:"granted_at"`
}

// OwnerGrant is a grant as listed by the report owner.
type OwnerGrant struct {
	ShareGrant
	GranteeEmail string `json:"grantee_email"`
	ReportName   string `json:"report_name"`
}

// SharedReport is a grant as listed by its grantee, joined with the
// report metadata and the owner's username.
type SharedReport struct {
	ShareGrant
	Filename      string `json:"filename"`
	OriginalName  string `json:"original_name"`
	ReportType    string `json:"report_type"`
	ReportDate    string `json:"report_date"`
	OwnerUsername string `json:"owner_username"`
}
