package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/voucher-redemption-system/internal/model"
	"github.com/fairyhunter13/voucher-redemption-system/internal/service"
	"github.com/fairyhunter13/voucher-redemption-system/pkg/database"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Constraint names from the vouchers DDL, used to tell a generated-id
// collision apart from a second voucher for the same owner.
const (
	voucherPKConstraint    = "vouchers_pkey"
	voucherOwnerConstraint = "vouchers_owner_phone_key"
)

// VoucherRepository provides data access for vouchers using pgx.
type VoucherRepository struct {
	pool PoolInterface
}

// NewVoucherRepository creates a new VoucherRepository with the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// NewVoucherRepositoryWithPool creates a new VoucherRepository with a custom
// pool interface. This is primarily used for testing.
func NewVoucherRepositoryWithPool(pool PoolInterface) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// Insert inserts a new voucher with status not_redeemed.
// Returns service.ErrAlreadyHasVoucher when the owner already has a voucher
// (unique constraint on owner_phone, the authoritative guard even when two
// issuance requests race past the service-level check),
// service.ErrVoucherIDTaken when the generated id collides, and
// service.ErrUserNotFound when the owner does not exist.
func (r *VoucherRepository) Insert(ctx context.Context, voucher *model.Voucher) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO vouchers (id, issued_at, owner_phone, status) VALUES ($1, $2, $3, $4)`,
		voucher.ID, voucher.IssuedAt, voucher.OwnerPhone, voucher.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == voucherPKConstraint:
				return service.ErrVoucherIDTaken
			case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == voucherOwnerConstraint:
				return service.ErrAlreadyHasVoucher
			case pgErr.Code == pgForeignKeyViolation:
				return service.ErrUserNotFound
			}
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

// List retrieves all vouchers ordered by creation time.
func (r *VoucherRepository) List(ctx context.Context) ([]model.Voucher, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, issued_at, owner_phone, status, redeemed_by, redeemed_at, created_at
		 FROM vouchers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := []model.Voucher{}
	for rows.Next() {
		var v model.Voucher
		if err := rows.Scan(&v.ID, &v.IssuedAt, &v.OwnerPhone, &v.Status, &v.RedeemedBy, &v.RedeemedAt, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vouchers rows: %w", err)
	}
	return vouchers, nil
}

// GetByID retrieves a voucher by its id.
// Returns nil, nil if the voucher is not found (service layer handles this).
func (r *VoucherRepository) GetByID(ctx context.Context, id string) (*model.Voucher, error) {
	query := `SELECT id, issued_at, owner_phone, status, redeemed_by, redeemed_at, created_at
	          FROM vouchers WHERE id = $1`

	var v model.Voucher
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.IssuedAt,
		&v.OwnerPhone,
		&v.Status,
		&v.RedeemedBy,
		&v.RedeemedAt,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get voucher by id %s: %w", id, err)
	}
	return &v, nil
}

// GetByOwner retrieves the voucher owned by the given phone number.
// Returns nil, nil if the user owns no voucher.
func (r *VoucherRepository) GetByOwner(ctx context.Context, ownerPhone string) (*model.Voucher, error) {
	query := `SELECT id, issued_at, owner_phone, status, redeemed_by, redeemed_at, created_at
	          FROM vouchers WHERE owner_phone = $1`

	var v model.Voucher
	err := r.pool.QueryRow(ctx, query, ownerPhone).Scan(
		&v.ID,
		&v.IssuedAt,
		&v.OwnerPhone,
		&v.Status,
		&v.RedeemedBy,
		&v.RedeemedAt,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher by owner %s: %w", ownerPhone, err)
	}
	return &v, nil
}

// GetByIDForUpdate retrieves a voucher with a row lock (SELECT FOR UPDATE).
// This locks the row until the transaction completes.
// Returns service.ErrVoucherNotFound if the voucher doesn't exist.
func (r *VoucherRepository) GetByIDForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Voucher, error) {
	query := `SELECT id, issued_at, owner_phone, status, redeemed_by, redeemed_at, created_at
	          FROM vouchers WHERE id = $1 FOR UPDATE`

	var v model.Voucher
	err := tx.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.IssuedAt,
		&v.OwnerPhone,
		&v.Status,
		&v.RedeemedBy,
		&v.RedeemedAt,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrVoucherNotFound
		}
		return nil, fmt.Errorf("get voucher for update %s: %w", id, err)
	}
	return &v, nil
}

// Redeem transitions a voucher to redeemed and records the dealer
// attribution. The update is conditioned on the previous status being
// not_redeemed, so a concurrent redemption of the same voucher affects zero
// rows here instead of overwriting the attribution.
// Returns false, nil when the conditional update matched no row, and
// service.ErrDealerNotFound when the dealer reference is invalid.
func (r *VoucherRepository) Redeem(ctx context.Context, tx database.TxQuerier, id, dealerNumber string, redeemedAt time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE vouchers SET status = $1, redeemed_by = $2, redeemed_at = $3
		 WHERE id = $4 AND status = $5`,
		model.StatusRedeemed, dealerNumber, redeemedAt, id, model.StatusNotRedeemed)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, service.ErrDealerNotFound
		}
		return false, fmt.Errorf("redeem voucher %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListRedemptionsByDealer retrieves the redemption log for a dealer, derived
// from the vouchers whose redemption was attributed to it.
// On success, returns an empty slice (not nil) when no redemptions exist.
func (r *VoucherRepository) ListRedemptionsByDealer(ctx context.Context, dealerNumber string) ([]model.RedemptionRecord, error) {
	query := `SELECT id, redeemed_at FROM vouchers WHERE redeemed_by = $1 ORDER BY redeemed_at`

	rows, err := r.pool.Query(ctx, query, dealerNumber)
	if err != nil {
		return nil, fmt.Errorf("get redemptions for dealer %s: %w", dealerNumber, err)
	}
	defer rows.Close()

	records := []model.RedemptionRecord{}
	for rows.Next() {
		var rec model.RedemptionRecord
		if err := rows.Scan(&rec.VoucherID, &rec.RedeemedAt); err != nil {
			return nil, fmt.Errorf("scan redemption record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemption rows: %w", err)
	}
	return records, nil
}
