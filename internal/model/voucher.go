package model

import "time"

// Voucher status values. The transition not_redeemed -> redeemed is one-way.
const (
	StatusNotRedeemed = "not_redeemed"
	StatusRedeemed    = "redeemed"
)

// Voucher represents a single-use voucher tied to exactly one user.
// IssuedAt is the issuance wall-clock time in Unix milliseconds and is part
// of the public payload under the historical "timestamp" key.
type Voucher struct {
	ID         string     `json:"id"`
	IssuedAt   int64      `json:"timestamp"`
	OwnerPhone string     `json:"user_number"`
	Status     string     `json:"status"`
	RedeemedBy *string    `json:"redeemed_by,omitempty"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `json:"-"` // Not exposed in API
}

// RedemptionRecord is one entry of a dealer's redeemed-voucher log,
// computed from the vouchers a dealer has redeemed.
type RedemptionRecord struct {
	VoucherID  string    `json:"voucher_id"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// IssueVoucherRequest is the DTO for POST /api/vouchers.
type IssueVoucherRequest struct {
	UserNumber string `json:"user_number" validate:"required,phone"`
}

// RedeemVoucherRequest is the DTO for PATCH/PUT /api/vouchers/:id/redeem.
type RedeemVoucherRequest struct {
	DealerNumber string `json:"dealer_number" validate:"required,notblank,max=50"`
}
