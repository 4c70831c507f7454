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

// DealerRepository provides data access for dealers using pgx.
type DealerRepository struct {
	pool PoolInterface
}

// NewDealerRepository creates a new DealerRepository with the given pool.
func NewDealerRepository(pool *pgxpool.Pool) *DealerRepository {
	return &DealerRepository{pool: pool}
}

// NewDealerRepositoryWithPool creates a new DealerRepository with a custom
// pool interface. This is primarily used for testing.
func NewDealerRepositoryWithPool(pool PoolInterface) *DealerRepository {
	return &DealerRepository{pool: pool}
}

// Insert inserts a new dealer within a transaction.
// Returns service.ErrDuplicateDealer when the dealer number already exists
// and service.ErrDistributorNotFound when the owning distributor is absent
// (foreign key backstop behind the service-level existence check).
func (r *DealerRepository) Insert(ctx context.Context, tx database.TxQuerier, dealer *model.Dealer) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO dealers (dealer_number, password_hash, name, pincode, distributor_number)
		 VALUES ($1, $2, $3, $4, $5)`,
		dealer.DealerNumber, dealer.PasswordHash, dealer.Name, dealer.Pincode, dealer.DistributorNumber)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgUniqueViolation {
				return service.ErrDuplicateDealer
			}
			if pgErr.Code == pgForeignKeyViolation {
				return service.ErrDistributorNotFound
			}
		}
		return fmt.Errorf("insert dealer: %w", err)
	}
	return nil
}

// GetByNumber retrieves a dealer by its dealer number.
// Returns nil, nil if the dealer is not found (service layer handles this).
func (r *DealerRepository) GetByNumber(ctx context.Context, dealerNumber string) (*model.Dealer, error) {
	query := `SELECT dealer_number, password_hash, name, pincode, distributor_number, created_at
	          FROM dealers WHERE dealer_number = $1`

	var d model.Dealer
	err := r.pool.QueryRow(ctx, query, dealerNumber).Scan(
		&d.DealerNumber,
		&d.PasswordHash,
		&d.Name,
		&d.Pincode,
		&d.DistributorNumber,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get dealer by number %s: %w", dealerNumber, err)
	}
	return &d, nil
}

// ListByDistributor retrieves the dealer roster of a distributor, derived
// from the dealers that reference it as owner.
// On success, returns an empty slice (not nil) when the roster is empty.
func (r *DealerRepository) ListByDistributor(ctx context.Context, distributorNumber string) ([]model.RosterEntry, error) {
	query := `SELECT dealer_number, name, pincode, created_at
	          FROM dealers WHERE distributor_number = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, distributorNumber)
	if err != nil {
		return nil, fmt.Errorf("get dealers for distributor %s: %w", distributorNumber, err)
	}
	defer rows.Close()

	roster := []model.RosterEntry{}
	for rows.Next() {
		var entry model.RosterEntry
		if err := rows.Scan(&entry.DealerNumber, &entry.Name, &entry.Pincode, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		roster = append(roster, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster rows: %w", err)
	}
	return roster, nil
}
