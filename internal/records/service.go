package records

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthwallet.org/internal/ids"
)

const dateLayout = "2006-01-02"

// Service validates and persists reports and vitals. File bytes are out
// of scope; a report carries metadata plus a server-generated stored
// filename derived from the original upload name.
type Service struct {
	reports ReportStore
	vitals  VitalStore
	now     func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService wires the record service to its stores.
func NewService(reports ReportStore, vitals VitalStore, opts ...ServiceOption) (*Service, error) {
	if reports == nil || vitals == nil {
		return nil, fmt.Errorf("records: both stores are required")
	}
	s := &Service{reports: reports, vitals: vitals, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateReport records report metadata for ownerID. The stored filename
// is a fresh UUID carrying the original extension so uploads can never
// collide or traverse paths. vitalsNote is optional free text.
func (s *Service) CreateReport(ctx context.Context, ownerID, originalName, reportType, date, vitalsNote string) (*Report, error) {
	originalName = strings.TrimSpace(originalName)
	reportType = strings.TrimSpace(reportType)
	date = strings.TrimSpace(date)
	if ownerID == "" || originalName == "" || reportType == "" {
		return nil, fmt.Errorf("%w: original_name and report_type are required", ErrInvalidInput)
	}
	if err := validDate(date); err != nil {
		return nil, err
	}

	report := &Report{
		ID:           ids.New(),
		OwnerUserID:  ownerID,
		Filename:     uuid.NewString() + strings.ToLower(filepath.Ext(originalName)),
		OriginalName: originalName,
		ReportType:   reportType,
		Date:         date,
		VitalsNote:   strings.TrimSpace(vitalsNote),
		UploadedAt:   s.now().UTC(),
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return report, nil
}

// GetReport fetches one report by id. Authorization is the caller's job.
func (s *Service) GetReport(ctx context.Context, id string) (*Report, error) {
	return s.reports.FindReport(ctx, id)
}

// ListReports returns the reports ownerID uploaded, newest first.
func (s *Service) ListReports(ctx context.Context, ownerID string) ([]Report, error) {
	return s.reports.ListReportsByOwner(ctx, ownerID)
}

// AddVital logs one measurement for userID.
func (s *Service) AddVital(ctx context.Context, userID, vitalType, value, date string) (*Vital, error) {
	vitalType = strings.TrimSpace(vitalType)
	value = strings.TrimSpace(value)
	date = strings.TrimSpace(date)
	if userID == "" || vitalType == "" || value == "" {
		return nil, fmt.Errorf("%w: vital_type and value are required", ErrInvalidInput)
	}
	if err := validDate(date); err != nil {
		return nil, err
	}

	vital := &Vital{
		ID:         ids.New(),
		UserID:     userID,
		VitalType:  vitalType,
		Value:      value,
		Date:       date,
		RecordedAt: s.now().UTC(),
	}
	if err := s.vitals.CreateVital(ctx, vital); err != nil {
		return nil, fmt.Errorf("create vital: %w", err)
	}
	return vital, nil
}

// ListVitals returns userID's measurements matching the filter.
func (s *Service) ListVitals(ctx context.Context, userID string, filter VitalFilter) ([]Vital, error) {
	if filter.Start != "" {
		if err := validDate(filter.Start); err != nil {
			return nil, err
		}
	}
	if filter.End != "" {
		if err := validDate(filter.End); err != nil {
			return nil, err
		}
	}
	return s.vitals.ListVitalsByUser(ctx, userID, filter)
}

// UpdateVital changes the value or date of one of userID's measurements.
func (s *Service) UpdateVital(ctx context.Context, userID, vitalID, value, date string) (*Vital, error) {
	value = strings.TrimSpace(value)
	date = strings.TrimSpace(date)
	if value == "" && date == "" {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if date != "" {
		if err := validDate(date); err != nil {
			return nil, err
		}
	}
	return s.vitals.UpdateVital(ctx, userID, vitalID, value, date)
}

// DeleteVital removes one of userID's measurements.
func (s *Service) DeleteVital(ctx context.Context, userID, vitalID string) error {
	return s.vitals.DeleteVital(ctx, userID, vitalID)
}

func validDate(date string) error {
	if date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}
