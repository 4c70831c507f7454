package service

import "errors"

var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUserNotFound is returned when a user cannot be found by phone number
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicatePhone is returned when registering a phone number that already exists
	ErrDuplicatePhone = errors.New("phone number already exists")

	// ErrUserHasVoucher is returned when deleting a user that still owns a voucher
	ErrUserHasVoucher = errors.New("cannot delete user with an active voucher")

	// ErrVoucherNotFound is returned when a voucher cannot be found
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrAlreadyHasVoucher is returned when issuing a voucher to a user that already owns one
	ErrAlreadyHasVoucher = errors.New("user already has a voucher")

	// ErrAlreadyRedeemed is returned when redeeming a voucher that was already redeemed
	ErrAlreadyRedeemed = errors.New("voucher already redeemed")

	// ErrVoucherIDTaken is returned when a generated voucher id collides with an existing one
	ErrVoucherIDTaken = errors.New("voucher id already taken")

	// ErrDealerNotFound is returned when a dealer cannot be found
	ErrDealerNotFound = errors.New("dealer not found")

	// ErrDuplicateDealer is returned when creating a dealer number that already exists
	ErrDuplicateDealer = errors.New("dealer already exists")

	// ErrDistributorNotFound is returned when a distributor cannot be found
	ErrDistributorNotFound = errors.New("distributor not found")

	// ErrDuplicateDistributor is returned when creating a distributor number that already exists
	ErrDuplicateDistributor = errors.New("distributor already exists")

	// ErrInvalidCredentials is returned on login when the number or password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")
)
