package sharing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"healthwallet.org/internal/ids"
)

// PGStore persists share grants in Postgres. CreateGrant locks the
// report row so two concurrent shares of the same report serialize and
// the duplicate check stays truthful.
type PGStore struct {
	db *sql.DB
}

// NewPGStore wraps an open database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) GrantExists(ctx context.Context, reportID, granteeUserID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from share_grants where report_id=$1 and grantee_user_id=$2)`,
		reportID, granteeUserID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("grant exists: %w", err)
	}
	return exists, nil
}

func (s *PGStore) CreateGrant(ctx context.Context, ownerID, reportID, granteeEmail string, access AccessType) (ShareGrant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ShareGrant{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var reportOwner string
	err = tx.QueryRowContext(ctx,
		`select owner_user_id from reports where id=$1 for update`, reportID,
	).Scan(&reportOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ShareGrant{}, ErrReportNotFound
	}
	if err != nil {
		return ShareGrant{}, fmt.Errorf("lock report: %w", err)
	}
	if reportOwner != ownerID {
		return ShareGrant{}, ErrNotOwner
	}

	var granteeID string
	err = tx.QueryRowContext(ctx,
		`select id from users where email=$1`, granteeEmail,
	).Scan(&granteeID)
	if errors.Is(err, sql.ErrNoRows) {
		return ShareGrant{}, ErrGranteeNotFound
	}
	if err != nil {
		return ShareGrant{}, fmt.Errorf("resolve grantee: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`select exists(select 1 from share_grants where report_id=$1 and grantee_user_id=$2)`,
		reportID, granteeID,
	).Scan(&exists)
	if err != nil {
		return ShareGrant{}, fmt.Errorf("check duplicate grant: %w", err)
	}
	if exists {
		return ShareGrant{}, ErrAlreadyShared
	}

	grant := ShareGrant{
		ID:            ids.New(),
		ReportID:      reportID,
		GranteeUserID: granteeID,
		Access:        access,
		GrantedAt:     time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`insert into share_grants(id, report_id, grantee_user_id, access_type, granted_at) values($1,$2,$3,$4,$5)`,
		grant.ID, grant.ReportID, grant.GranteeUserID, string(grant.Access), grant.GrantedAt,
	)
	if err != nil {
		return ShareGrant{}, fmt.Errorf("insert grant: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ShareGrant{}, fmt.Errorf("commit tx: %w", err)
	}
	return grant, nil
}

func (s *PGStore) DeleteGrantOwnedBy(ctx context.Context, grantID, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from share_grants sg using reports r
		 where sg.id=$1 and r.id=sg.report_id and r.owner_user_id=$2`,
		grantID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrGrantNotFound
	}
	return nil
}

func (s *PGStore) GrantsForOwner(ctx context.Context, ownerID string) ([]OwnerGrant, error) {
	rows, err := s.db.QueryContext(ctx,
		`select sg.id, sg.report_id, sg.grantee_user_id, sg.access_type, sg.granted_at,
		        u.email, r.original_name
		 from share_grants sg
		 join reports r on r.id = sg.report_id
		 join users u on u.id = sg.grantee_user_id
		 where r.owner_user_id=$1
		 order by sg.granted_at desc`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list owner grants: %w", err)
	}
	defer rows.Close()

	out := make([]OwnerGrant, 0)
	for rows.Next() {
		var g OwnerGrant
		if err := rows.Scan(&g.ID, &g.ReportID, &g.GranteeUserID, &g.Access, &g.GrantedAt, &g.GranteeEmail, &g.ReportName); err != nil {
			return nil, fmt.Errorf("scan owner grant: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *PGStore) GrantsForGrantee(ctx context.Context, granteeUserID string) ([]SharedReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`select sg.id, sg.report_id, sg.grantee_user_id, sg.access_type, sg.granted_at,
		        r.filename, r.original_name, r.report_type, r.report_date, u.username
		 from share_grants sg
		 join reports r on r.id = sg.report_id
		 join users u on u.id = r.owner_user_id
		 where sg.grantee_user_id=$1
		 order by sg.granted_at desc`,
		granteeUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shared reports: %w", err)
	}
	defer rows.Close()

	out := make([]SharedReport, 0)
	for rows.Next() {
		var sr SharedReport
		if err := rows.Scan(&sr.ID, &sr.ReportID, &sr.GranteeUserID, &sr.Access, &sr.GrantedAt,
			&sr.Filename, &sr.OriginalName, &sr.ReportType, &sr.ReportDate, &sr.OwnerUsername); err != nil {
			return nil, fmt.Errorf("scan shared report: %w", err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
