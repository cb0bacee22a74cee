package records

import (
	"context"
	"sort"
	"sync"
)

// ReportStore persists report metadata.
type ReportStore interface {
	CreateReport(ctx context.Context, r *Report) error
	FindReport(ctx context.Context, id string) (*Report, error)
	ListReportsByOwner(ctx context.Context, ownerID string) ([]Report, error)
}

// VitalStore persists vitals. Update and Delete are scoped to the
// owning user so one user can never touch another user's rows.
type VitalStore interface {
	CreateVital(ctx context.Context, v *Vital) error
	ListVitalsByUser(ctx context.Context, userID string, filter VitalFilter) ([]Vital, error)
	UpdateVital(ctx context.Context, userID, vitalID string, value, date string) (*Vital, error)
	DeleteVital(ctx context.Context, userID, vitalID string) error
}

// InMemory keeps reports and vitals in maps. Used by tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	reports map[string]Report
	vitals  map[string]Vital
}

func NewInMemory() *InMemory {
	return &InMemory{
		reports: make(map[string]Report),
		vitals:  make(map[string]Vital),
	}
}

func (m *InMemory) CreateReport(ctx context.Context, r *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = *r
	return nil
}

func (m *InMemory) FindReport(ctx context.Context, id string) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := r
	return &out, nil
}

func (m *InMemory) ListReportsByOwner(ctx context.Context, ownerID string) ([]Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Report, 0)
	for _, r := range m.reports {
		if r.OwnerUserID == ownerID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (m *InMemory) CreateVital(ctx context.Context, v *Vital) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vitals[v.ID] = *v
	return nil
}

func (m *InMemory) ListVitalsByUser(ctx context.Context, userID string, filter VitalFilter) ([]Vital, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Vital, 0)
	for _, v := range m.vitals {
		if v.UserID == userID && filter.Matches(v) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}

func (m *InMemory) UpdateVital(ctx context.Context, userID, vitalID string, value, date string) (*Vital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vitals[vitalID]
	if !ok || v.UserID != userID {
		return nil, ErrNotFound
	}
	if value != "" {
		v.Value = value
	}
	if date != "" {
		v.Date = date
	}
	m.vitals[vitalID] = v
	out := v
	return &out, nil
}

func (m *InMemory) DeleteVital(ctx context.Context, userID, vitalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vitals[vitalID]
	if !ok || v.UserID != userID {
		return ErrNotFound
	}
	delete(m.vitals, vitalID)
	return nil
}
