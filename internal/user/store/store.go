package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectUserColumns = `id, name, mobile_number, state, role, created_at, updated_at`

func scanUser(row *sql.Row) (*user.User, error) {
	var u user.User

	var role string

	if err := row.Scan(&u.ID, &u.Name, &u.MobileNumber, &u.State, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	u.Role = user.Role(role)

	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) GetUserByMobile(ctx context.Context, mobile string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE mobile_number = $1`

	return scanUser(s.db.QueryRowContext(ctx, query, mobile))
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	query := `
		INSERT INTO users (id, name, mobile_number, state, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, u.ID, u.Name, u.MobileNumber, u.State, u.Role).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, name, state string) error {
	query := `UPDATE users SET name = $1, state = $2, updated_at = NOW() WHERE id = $3`

	res, err := s.db.ExecContext(ctx, query, name, state, id)
	if err != nil {
		return fmt.Errorf("updating user profile: %w", err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return user.ErrNotFound
	}

	return nil
}
