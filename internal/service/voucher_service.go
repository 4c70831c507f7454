package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/voucher-redemption-system/internal/model"
	"github.com/fairyhunter13/voucher-redemption-system/pkg/database"
)

// VoucherRepositoryInterface defines the interface for voucher data access.
type VoucherRepositoryInterface interface {
	Insert(ctx context.Context, voucher *model.Voucher) error
	List(ctx context.Context) ([]model.Voucher, error)
	GetByID(ctx context.Context, id string) (*model.Voucher, error)
	GetByOwner(ctx context.Context, ownerPhone string) (*model.Voucher, error)
	GetByIDForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Voucher, error)
	Redeem(ctx context.Context, tx database.TxQuerier, id, dealerNumber string, redeemedAt time.Time) (bool, error)
}

// UserLookup is the slice of user data access needed for issuance.
type UserLookup interface {
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
}

// DealerLookup is the slice of dealer data access needed for redemption.
type DealerLookup interface {
	GetByNumber(ctx context.Context, dealerNumber string) (*model.Dealer, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// VoucherService provides business logic for voucher issuance and redemption.
type VoucherService struct {
	pool     TxBeginner
	vouchers VoucherRepositoryInterface
	users    UserLookup
	dealers  DealerLookup
}

// NewVoucherService creates a new VoucherService with the given pool and repositories.
func NewVoucherService(pool *pgxpool.Pool, vouchers VoucherRepositoryInterface, users UserLookup, dealers DealerLookup) *VoucherService {
	return &VoucherService{
		pool:     pool,
		vouchers: vouchers,
		users:    users,
		dealers:  dealers,
	}
}

// NewVoucherServiceWithTxBeginner creates a VoucherService with a custom TxBeginner.
// Primarily used for testing.
func NewVoucherServiceWithTxBeginner(pool TxBeginner, vouchers VoucherRepositoryInterface, users UserLookup, dealers DealerLookup) *VoucherService {
	return &VoucherService{
		pool:     pool,
		vouchers: vouchers,
		users:    users,
		dealers:  dealers,
	}
}

// maxIDAttempts bounds the regenerate-and-retry loop on voucher id collisions.
const maxIDAttempts = 3

// voucherSeq disambiguates ids generated within the same millisecond in this
// process; cross-process collisions are caught by the primary key and retried.
var voucherSeq atomic.Uint64

// generateVoucherID builds a voucher id from a fixed prefix, the calendar
// date and the millisecond timestamp, plus a sequence suffix.
func generateVoucherID(now time.Time) string {
	seq := voucherSeq.Add(1) % 10000
	return fmt.Sprintf("LG%s%d%04d", now.UTC().Format("20060102"), now.UnixMilli(), seq)
}

// Issue creates a voucher for the given user. At most one voucher may exist
// per user; the unique constraint on owner_phone is the authoritative guard
// when two issuance requests race past the explicit check.
// Returns:
//   - ErrUserNotFound if the user doesn't exist
//   - ErrAlreadyHasVoucher if the user already owns a voucher
func (s *VoucherService) Issue(ctx context.Context, userNumber string) (*model.Voucher, error) {
	user, err := s.users.GetByPhone(ctx, userNumber)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.vouchers.GetByOwner(ctx, userNumber)
	if err != nil {
		return nil, fmt.Errorf("check existing voucher: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyHasVoucher
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		now := time.Now()
		voucher := &model.Voucher{
			ID:         generateVoucherID(now),
			IssuedAt:   now.UnixMilli(),
			OwnerPhone: userNumber,
			Status:     model.StatusNotRedeemed,
		}

		err = s.vouchers.Insert(ctx, voucher)
		if errors.Is(err, ErrVoucherIDTaken) {
			continue // Regenerate and retry against the store's uniqueness constraint
		}
		if err != nil {
			if errors.Is(err, ErrAlreadyHasVoucher) || errors.Is(err, ErrUserNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("insert voucher: %w", err)
		}
		return voucher, nil
	}
	return nil, fmt.Errorf("issue voucher after %d attempts: %w", maxIDAttempts, ErrVoucherIDTaken)
}

// List retrieves all vouchers.
func (s *VoucherService) List(ctx context.Context) ([]model.Voucher, error) {
	vouchers, err := s.vouchers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	return vouchers, nil
}

// GetByID retrieves a voucher by id.
// Returns ErrVoucherNotFound if the voucher doesn't exist.
func (s *VoucherService) GetByID(ctx context.Context, id string) (*model.Voucher, error) {
	voucher, err := s.vouchers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	return voucher, nil
}

// Redeem atomically transitions a voucher to redeemed with dealer attribution.
// The status transition and the attribution are one UPDATE conditioned on the
// previous status, inside a transaction that first locks the voucher row, so
// concurrent redemptions of the same voucher resolve to exactly one winner.
// Returns:
//   - ErrDealerNotFound if the dealer doesn't exist
//   - ErrVoucherNotFound if the voucher doesn't exist
//   - ErrAlreadyRedeemed if the voucher was already redeemed
func (s *VoucherService) Redeem(ctx context.Context, voucherID, dealerNumber string) error {
	dealer, err := s.dealers.GetByNumber(ctx, dealerNumber)
	if err != nil {
		return fmt.Errorf("get dealer: %w", err)
	}
	if dealer == nil {
		return ErrDealerNotFound
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the voucher row (SELECT FOR UPDATE)
	voucher, err := s.vouchers.GetByIDForUpdate(ctx, tx, voucherID)
	if err != nil {
		if errors.Is(err, ErrVoucherNotFound) {
			return ErrVoucherNotFound
		}
		return fmt.Errorf("get voucher for update: %w", err)
	}

	// 2. Check status; redeemed vouchers never revert
	if voucher.Status == model.StatusRedeemed {
		return ErrAlreadyRedeemed
	}

	// 3. Conditional status transition with dealer attribution
	redeemed, err := s.vouchers.Redeem(ctx, tx, voucherID, dealerNumber, time.Now())
	if err != nil {
		if errors.Is(err, ErrDealerNotFound) {
			return ErrDealerNotFound
		}
		return fmt.Errorf("redeem voucher: %w", err)
	}
	if !redeemed {
		return ErrAlreadyRedeemed
	}

	return tx.Commit(ctx)
}
