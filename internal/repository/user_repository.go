package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/voucher-redemption-system/internal/model"
	"github.com/fairyhunter13/voucher-redemption-system/internal/service"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// UserRepository provides data access for users using pgx.
type UserRepository struct {
	pool PoolInterface
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a new UserRepository with a custom pool interface.
// This is primarily used for testing.
func NewUserRepositoryWithPool(pool PoolInterface) *UserRepository {
	return &UserRepository{pool: pool}
}

// Insert inserts a new user.
// Returns service.ErrDuplicatePhone if the phone number is already registered.
func (r *UserRepository) Insert(ctx context.Context, user *model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (phone_number, name, email) VALUES ($1, $2, $3)`,
		user.PhoneNumber, user.Name, user.Email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return service.ErrDuplicatePhone
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// List retrieves all users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT phone_number, name, email, created_at, updated_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.PhoneNumber, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}
	return users, nil
}

// GetByPhone retrieves a user by phone number.
// Returns nil, nil if the user is not found (service layer handles this).
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	query := `SELECT phone_number, name, email, created_at, updated_at FROM users WHERE phone_number = $1`

	var u model.User
	err := r.pool.QueryRow(ctx, query, phone).Scan(
		&u.PhoneNumber,
		&u.Name,
		&u.Email,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get user by phone %s: %w", phone, err)
	}
	return &u, nil
}

// Update rewrites the mutable fields of a user.
// Returns false, nil when no row matched the phone number.
func (r *UserRepository) Update(ctx context.Context, phone, name, email string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, updated_at = now() WHERE phone_number = $3`,
		name, email, phone)
	if err != nil {
		return false, fmt.Errorf("update user %s: %w", phone, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a user by phone number.
// Returns false, nil when no row matched. The foreign key from vouchers is a
// backstop against the issuance race between the service-level voucher check
// and the delete; a violation maps to service.ErrUserHasVoucher.
func (r *UserRepository) Delete(ctx context.Context, phone string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE phone_number = $1`, phone)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, service.ErrUserHasVoucher
		}
		return false, fmt.Errorf("delete user %s: %w", phone, err)
	}
	return tag.RowsAffected() > 0, nil
}
