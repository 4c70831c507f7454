package service

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/voucher-redemption-system/internal/model"
)

// UserRepositoryInterface defines the interface for user data access.
type UserRepositoryInterface interface {
	Insert(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	Update(ctx context.Context, phone, name, email string) (bool, error)
	Delete(ctx context.Context, phone string) (bool, error)
}

// VoucherOwnerLookup is the slice of voucher data access needed by the user
// registry to enforce the no-delete-while-owning-a-voucher rule.
type VoucherOwnerLookup interface {
	GetByOwner(ctx context.Context, ownerPhone string) (*model.Voucher, error)
}

// UserService provides business logic for the user registry.
type UserService struct {
	users    UserRepositoryInterface
	vouchers VoucherOwnerLookup
}

// NewUserService creates a new UserService with the given repositories.
func NewUserService(users UserRepositoryInterface, vouchers VoucherOwnerLookup) *UserService {
	return &UserService{users: users, vouchers: vouchers}
}

// Create registers a new user.
// Returns ErrDuplicatePhone if the phone number is already registered.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) error {
	// Defense-in-depth: check for nil pointer even though handler validates
	if req == nil {
		return ErrInvalidRequest
	}

	user := &model.User{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	}
	return s.users.Insert(ctx, user)
}

// List retrieves all registered users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByPhone retrieves a user by phone number.
// Returns ErrUserNotFound if the user doesn't exist.
func (s *UserService) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update rewrites the name and email of an existing user.
// Returns ErrUserNotFound if no user matches the phone number.
func (s *UserService) Update(ctx context.Context, phone string, req *model.UpdateUserRequest) error {
	if req == nil {
		return ErrInvalidRequest
	}

	updated, err := s.users.Update(ctx, phone, req.Name, req.Email)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user that owns no voucher.
// The voucher check is read-then-act; a voucher issued between the check and
// the delete is caught by the owner_phone foreign key in the repository.
// Returns ErrUserHasVoucher when a voucher exists and ErrUserNotFound when
// no user matches the phone number.
func (s *UserService) Delete(ctx context.Context, phone string) error {
	voucher, err := s.vouchers.GetByOwner(ctx, phone)
	if err != nil {
		return fmt.Errorf("check voucher ownership: %w", err)
	}
	if voucher != nil {
		return ErrUserHasVoucher
	}

	deleted, err := s.users.Delete(ctx, phone)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}
