package records

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("records: not found")
	ErrInvalidInput = errors.New("records: invalid input")
)

// Report is a medical report's metadata. The stored filename is an
// opaque server-side name; OriginalName is what the user uploaded.
type Report struct {
	ID           string    `json:"id"`
	OwnerUserID  string    `json:"owner_user_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	ReportType   string    `json:"report_type"`
	Date         string    `json:"report_date"`
	VitalsNote   string    `json:"vitals,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Vital is a single measurement a user logged for themselves.
type Vital struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	VitalType  string    `json:"vital_type"`
	Value      string    `json:"value"`
	Date       string    `json:"date"`
	RecordedAt time.Time `json:"recorded_at"`
}

// VitalFilter narrows a vitals listing. Zero values mean no constraint.
type VitalFilter struct {
	Type  string
	Start string
	End   string
}

// Matches reports whether v satisfies the filter. Dates compare
// lexically, which is correct for the YYYY-MM-DD form stored here.
func (f VitalFilter) Matches(v Vital) bool {
	if f.Type != "" && v.VitalType != f.Type {
		return false
	}
	if f.Start != "" && v.Date < f.Start {
		return false
	}
	if f.End != "" && v.Date > f.End {
		return false
	}
	return true
}
