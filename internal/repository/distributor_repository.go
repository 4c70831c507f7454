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
	"github.com/fairyhunter13/voucher-redemption-system/pkg/database"
)

// DistributorRepository provides data access for distributors using pgx.
type DistributorRepository struct {
	pool PoolInterface
}

// NewDistributorRepository creates a new DistributorRepository with the given pool.
func NewDistributorRepository(pool *pgxpool.Pool) *DistributorRepository {
	return &DistributorRepository{pool: pool}
}

// NewDistributorRepositoryWithPool creates a new DistributorRepository with a
// custom pool interface. This is primarily used for testing.
func NewDistributorRepositoryWithPool(pool PoolInterface) *DistributorRepository {
	return &DistributorRepository{pool: pool}
}

// Insert inserts a new distributor.
// Returns service.ErrDuplicateDistributor if the number already exists.
func (r *DistributorRepository) Insert(ctx context.Context, distributor *model.Distributor) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO distributors (distributor_number, password_hash, name, pincode)
		 VALUES ($1, $2, $3, $4)`,
		distributor.DistributorNumber, distributor.PasswordHash, distributor.Name, distributor.Pincode)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return service.ErrDuplicateDistributor
		}
		return fmt.Errorf("insert distributor: %w", err)
	}
	return nil
}

// GetByNumber retrieves a distributor by its distributor number.
// Returns nil, nil if the distributor is not found (service layer handles this).
func (r *DistributorRepository) GetByNumber(ctx context.Context, distributorNumber string) (*model.Distributor, error) {
	query := `SELECT distributor_number, password_hash, name, pincode, created_at
	          FROM distributors WHERE distributor_number = $1`

	var d model.Distributor
	err := r.pool.QueryRow(ctx, query, distributorNumber).Scan(
		&d.DistributorNumber,
		&d.PasswordHash,
		&d.Name,
		&d.Pincode,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get distributor by number %s: %w", distributorNumber, err)
	}
	return &d, nil
}

// GetByNumberForUpdate retrieves a distributor with a row lock
// (SELECT FOR UPDATE), holding it until the transaction completes so dealer
// creation sees a stable owner row.
// Returns service.ErrDistributorNotFound if the distributor doesn't exist.
func (r *DistributorRepository) GetByNumberForUpdate(ctx context.Context, tx database.TxQuerier, distributorNumber string) (*model.Distributor, error) {
	query := `SELECT distributor_number, password_hash, name, pincode, created_at
	          FROM distributors WHERE distributor_number = $1 FOR UPDATE`

	var d model.Distributor
	err := tx.QueryRow(ctx, query, distributorNumber).Scan(
		&d.DistributorNumber,
		&d.PasswordHash,
		&d.Name,
		&d.Pincode,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrDistributorNotFound
		}
		return nil, fmt.Errorf("get distributor for update %s: %w", distributorNumber, err)
	}
	return &d, nil
}
