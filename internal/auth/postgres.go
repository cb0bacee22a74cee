package auth

import (
	"context"
	"database/sql"
	"errors"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Create inserts a user. The combined username/email existence check and
// the insert run in one transaction; the unique indexes on both columns
// back the check under concurrent registrations.
func (s *PGStore) Create(ctx context.Context, u *User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`select exists(select 1 from users where email=$1 or username=$2)`,
		u.Email, u.Username,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateIdentity
	}

	if _, err := tx.ExecContext(ctx,
		`insert into users(id, username, email, password_hash, role) values($1,$2,$3,$4,$5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PGStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`select id, username, email, password_hash, role, created_at, updated_at from users where id=$1`, id))
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`select id, username, email, password_hash, role, created_at, updated_at from users where email=$1`, email))
}

func (s *PGStore) scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
