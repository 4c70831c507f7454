package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairyhunter13/voucher-redemption-system/internal/model"
	"github.com/fairyhunter13/voucher-redemption-system/pkg/database"
)

// DealerRepositoryInterface defines the interface for dealer data access.
type DealerRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, dealer *model.Dealer) error
	GetByNumber(ctx context.Context, dealerNumber string) (*model.Dealer, error)
	ListByDistributor(ctx context.Context, distributorNumber string) ([]model.RosterEntry, error)
}

// DistributorRepositoryInterface defines the interface for distributor data access.
type DistributorRepositoryInterface interface {
	Insert(ctx context.Context, distributor *model.Distributor) error
	GetByNumber(ctx context.Context, distributorNumber string) (*model.Distributor, error)
	GetByNumberForUpdate(ctx context.Context, tx database.TxQuerier, distributorNumber string) (*model.Distributor, error)
}

// RedemptionLister is the slice of voucher data access needed to build a
// dealer's redeemed-voucher log.
type RedemptionLister interface {
	ListRedemptionsByDealer(ctx context.Context, dealerNumber string) ([]model.RedemptionRecord, error)
}

// DirectoryService provides business logic for the dealer/distributor directory.
type DirectoryService struct {
	pool         TxBeginner
	dealers      DealerRepositoryInterface
	distributors DistributorRepositoryInterface
	vouchers     RedemptionLister
}

// NewDirectoryService creates a new DirectoryService with the given pool and repositories.
func NewDirectoryService(pool *pgxpool.Pool, dealers DealerRepositoryInterface, distributors DistributorRepositoryInterface, vouchers RedemptionLister) *DirectoryService {
	return &DirectoryService{
		pool:         pool,
		dealers:      dealers,
		distributors: distributors,
		vouchers:     vouchers,
	}
}

// NewDirectoryServiceWithTxBeginner creates a DirectoryService with a custom TxBeginner.
// Primarily used for testing.
func NewDirectoryServiceWithTxBeginner(pool TxBeginner, dealers DealerRepositoryInterface, distributors DistributorRepositoryInterface, vouchers RedemptionLister) *DirectoryService {
	return &DirectoryService{
		pool:         pool,
		dealers:      dealers,
		distributors: distributors,
		vouchers:     vouchers,
	}
}

// CreateDistributor registers a new distributor with a bcrypt-hashed credential.
// Returns ErrDuplicateDistributor if the distributor number already exists.
func (s *DirectoryService) CreateDistributor(ctx context.Context, req *model.CreateDistributorRequest) error {
	if req == nil {
		return ErrInvalidRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	distributor := &model.Distributor{
		DistributorNumber: req.DistributorNumber,
		PasswordHash:      string(hash),
		Name:              req.DistributorName,
		Pincode:           req.DistributorPincode,
	}
	return s.distributors.Insert(ctx, distributor)
}

// CreateDealer registers a new dealer under an existing distributor. The
// existence check and the insert run in one transaction holding a lock on
// the distributor row, so the dealer is created entirely or not at all.
// Returns:
//   - ErrDistributorNotFound if the owning distributor doesn't exist
//   - ErrDuplicateDealer if the dealer number already exists
func (s *DirectoryService) CreateDealer(ctx context.Context, req *model.CreateDealerRequest) error {
	if req == nil {
		return ErrInvalidRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the owning distributor row (SELECT FOR UPDATE)
	if _, err := s.distributors.GetByNumberForUpdate(ctx, tx, req.DistributorNumber); err != nil {
		if errors.Is(err, ErrDistributorNotFound) {
			return ErrDistributorNotFound
		}
		return fmt.Errorf("get distributor for update: %w", err)
	}

	// 2. Insert the dealer (UNIQUE constraint catches duplicates)
	dealer := &model.Dealer{
		DealerNumber:      req.DealerNumber,
		PasswordHash:      string(hash),
		Name:              req.DealerName,
		Pincode:           req.DealerPincode,
		DistributorNumber: req.DistributorNumber,
	}
	if err := s.dealers.Insert(ctx, tx, dealer); err != nil {
		if errors.Is(err, ErrDuplicateDealer) || errors.Is(err, ErrDistributorNotFound) {
			return err
		}
		return fmt.Errorf("insert dealer: %w", err)
	}

	return tx.Commit(ctx)
}

// DealerLogin verifies a dealer's credential.
// A missing dealer and a password mismatch both return ErrInvalidCredentials
// so the response does not reveal which numbers exist.
func (s *DirectoryService) DealerLogin(ctx context.Context, dealerNumber, password string) (*model.Dealer, error) {
	dealer, err := s.dealers.GetByNumber(ctx, dealerNumber)
	if err != nil {
		return nil, fmt.Errorf("get dealer: %w", err)
	}
	if dealer == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(dealer.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return dealer, nil
}

// DistributorLogin verifies a distributor's credential.
func (s *DirectoryService) DistributorLogin(ctx context.Context, distributorNumber, password string) (*model.Distributor, error) {
	distributor, err := s.distributors.GetByNumber(ctx, distributorNumber)
	if err != nil {
		return nil, fmt.Errorf("get distributor: %w", err)
	}
	if distributor == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(distributor.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return distributor, nil
}

// GetDealer retrieves a dealer with its redeemed-voucher log. The log is
// computed from the vouchers attributed to the dealer, never stored.
// Returns ErrDealerNotFound if the dealer doesn't exist.
func (s *DirectoryService) GetDealer(ctx context.Context, dealerNumber string) (*model.DealerResponse, error) {
	dealer, err := s.dealers.GetByNumber(ctx, dealerNumber)
	if err != nil {
		return nil, fmt.Errorf("get dealer: %w", err)
	}
	if dealer == nil {
		return nil, ErrDealerNotFound
	}

	redeemedLog, err := s.vouchers.ListRedemptionsByDealer(ctx, dealerNumber)
	if err != nil {
		return nil, fmt.Errorf("get redemption log: %w", err)
	}

	return &model.DealerResponse{
		DealerNumber:      dealer.DealerNumber,
		Name:              dealer.Name,
		Pincode:           dealer.Pincode,
		DistributorNumber: dealer.DistributorNumber,
		CreatedAt:         dealer.CreatedAt,
		RedeemedLog:       redeemedLog,
	}, nil
}

// GetDistributor retrieves a distributor with its dealer roster, computed
// from the dealers that reference it as owner.
// Returns ErrDistributorNotFound if the distributor doesn't exist.
func (s *DirectoryService) GetDistributor(ctx context.Context, distributorNumber string) (*model.DistributorResponse, error) {
	distributor, err := s.distributors.GetByNumber(ctx, distributorNumber)
	if err != nil {
		return nil, fmt.Errorf("get distributor: %w", err)
	}
	if distributor == nil {
		return nil, ErrDistributorNotFound
	}

	roster, err := s.dealers.ListByDistributor(ctx, distributorNumber)
	if err != nil {
		return nil, fmt.Errorf("get dealer roster: %w", err)
	}

	return &model.DistributorResponse{
		DistributorNumber: distributor.DistributorNumber,
		Name:              distributor.Name,
		Pincode:           distributor.Pincode,
		CreatedAt:         distributor.CreatedAt,
		DealerRoster:      roster,
	}, nil
}
