package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages staff accounts. New accounts start unapproved and
// cannot authenticate until an admin approves them.
type UserService interface {
	// Create registers a pending staff account.
	Create(ctx context.Context, email, password, fullName string) (*User, error)

	// Authenticate checks the credentials and the account gates. It returns
	// ErrInvalidCredentials for unknown emails and bad passwords alike, and
	// ErrAccountPending when the account exists but is not yet approved.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	GetByID(ctx context.Context, id string) (*User, error)
	ListPending(ctx context.Context) ([]User, error)
	Approve(ctx context.Context, id string) error

	// Reject deactivates a pending account without deleting its row.
	Reject(ctx context.Context, id string) error
}

type userService struct {
	pool *pgxpool.Pool
}

func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

const userColumns = "id::text, email, full_name, role, is_approved, is_active, created_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role,
		&u.IsApproved, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) Create(ctx context.Context, email, password, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidCredentials)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, 'staff')
		RETURNING `+userColumns,
		email, string(hash), fullName))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", classify(err))
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	ctx, cancel := opCtx(ctx)
	defer cancel()

	var (
		u    User
		hash string
	)
	err := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+", password_hash FROM users WHERE email = $1", email,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.Role,
		&u.IsApproved, &u.IsActive, &u.CreatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", classify(err))
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !u.IsApproved {
		return nil, ErrAccountPending
	}
	return &u, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	u, err := scanUser(s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", id, classify(err))
	}
	return u, nil
}

func (s *userService) ListPending(ctx context.Context) ([]User, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE NOT is_approved AND is_active ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("query pending users: %w", classify(err))
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *userService) Approve(ctx context.Context, id string) error {
	return s.setApproval(ctx, id, "UPDATE users SET is_approved = true WHERE id = $1")
}

func (s *userService) Reject(ctx context.Context, id string) error {
	return s.setApproval(ctx, id, "UPDATE users SET is_active = false WHERE id = $1")
}

func (s *userService) setApproval(ctx context.Context, id, sql string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", ErrInvalidCredentials, id)
	}
	return nil
}
