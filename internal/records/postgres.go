package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PGStore backs both record stores with Postgres.
type PGStore struct {
	db *sql.DB
}

// NewPGStore wraps an open database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) CreateReport(ctx context.Context, r *Report) error {
	_, err := s.db.ExecContext(ctx,
		`insert into reports(id, owner_user_id, filename, original_name, report_type, report_date, vitals, uploaded_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.OwnerUserID, r.Filename, r.OriginalName, r.ReportType, r.Date, r.VitalsNote, r.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *PGStore) FindReport(ctx context.Context, id string) (*Report, error) {
	var r Report
	err := s.db.QueryRowContext(ctx,
		`select id, owner_user_id, filename, original_name, report_type, report_date, vitals, uploaded_at
		 from reports where id=$1`, id,
	).Scan(&r.ID, &r.OwnerUserID, &r.Filename, &r.OriginalName, &r.ReportType, &r.Date, &r.VitalsNote, &r.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &r, nil
}

func (s *PGStore) ListReportsByOwner(ctx context.Context, ownerID string) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, owner_user_id, filename, original_name, report_type, report_date, vitals, uploaded_at
		 from reports where owner_user_id=$1 order by uploaded_at desc`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := make([]Report, 0)
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.OwnerUserID, &r.Filename, &r.OriginalName, &r.ReportType, &r.Date, &r.VitalsNote, &r.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PGStore) CreateVital(ctx context.Context, v *Vital) error {
	_, err := s.db.ExecContext(ctx,
		`insert into vitals(id, user_id, vital_type, value, date, recorded_at)
		 values($1,$2,$3,$4,$5,$6)`,
		v.ID, v.UserID, v.VitalType, v.Value, v.Date, v.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vital: %w", err)
	}
	return nil
}

func (s *PGStore) ListVitalsByUser(ctx context.Context, userID string, filter VitalFilter) ([]Vital, error) {
	var sb strings.Builder
	sb.WriteString(`select id, user_id, vital_type, value, date, recorded_at from vitals where user_id=$1`)
	args := []any{userID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		sb.WriteString(` and vital_type=$` + strconv.Itoa(len(args)))
	}
	if filter.Start != "" {
		args = append(args, filter.Start)
		sb.WriteString(` and date>=$` + strconv.Itoa(len(args)))
	}
	if filter.End != "" {
		args = append(args, filter.End)
		sb.WriteString(` and date<=$` + strconv.Itoa(len(args)))
	}
	sb.WriteString(` order by date desc, recorded_at desc`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list vitals: %w", err)
	}
	defer rows.Close()

	out := make([]Vital, 0)
	for rows.Next() {
		var v Vital
		if err := rows.Scan(&v.ID, &v.UserID, &v.VitalType, &v.Value, &v.Date, &v.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan vital: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdateVital(ctx context.Context, userID, vitalID string, value, date string) (*Vital, error) {
	var v Vital
	err := s.db.QueryRowContext(ctx,
		`update vitals
		 set value = coalesce(nullif($3,''), value),
		     date  = coalesce(nullif($4,''), date)
		 where id=$1 and user_id=$2
		 returning id, user_id, vital_type, value, date, recorded_at`,
		vitalID, userID, value, date,
	).Scan(&v.ID, &v.UserID, &v.VitalType, &v.Value, &v.Date, &v.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update vital: %w", err)
	}
	return &v, nil
}

func (s *PGStore) DeleteVital(ctx context.Context, userID, vitalID string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from vitals where id=$1 and user_id=$2`, vitalID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete vital: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
