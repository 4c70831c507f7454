package model

import "time"

// Dealer is a retail-level agent affiliated with one distributor.
// PasswordHash holds the bcrypt hash of the credential and is never serialized.
type Dealer struct {
	DealerNumber      string    `json:"dealer_number"`
	PasswordHash      string    `json:"-"`
	Name              string    `json:"dealer_name"`
	Pincode           string    `json:"dealer_pincode"`
	DistributorNumber string    `json:"distributor_number"`
	CreatedAt         time.Time `json:"created_at"`
}

// DealerResponse is the API projection for GET /api/dealers/:dealer_number.
// RedeemedLog is derived from the vouchers whose redemption was attributed
// to this dealer; it is not stored on the dealer row.
type DealerResponse struct {
	DealerNumber      string             `json:"dealer_number"`
	Name              string             `json:"dealer_name"`
	Pincode           string             `json:"dealer_pincode"`
	DistributorNumber string             `json:"distributor_number"`
	CreatedAt         time.Time          `json:"created_at"`
	RedeemedLog       []RedemptionRecord `json:"redeemed_log"`
}

// CreateDealerRequest is the DTO for POST /api/dealers.
type CreateDealerRequest struct {
	DealerNumber      string `json:"dealer_number" validate:"required,notblank,max=50"`
	Password          string `json:"password" validate:"required,min=6,max=72"`
	DealerName        string `json:"dealer_name" validate:"required,notblank,max=100"`
	DealerPincode     string `json:"dealer_pincode" validate:"required,notblank,max=10"`
	DistributorNumber string `json:"distributor_number" validate:"required,notblank,max=50"`
}

// DealerLoginRequest is the DTO for POST /api/dealers/login.
type DealerLoginRequest struct {
	DealerNumber string `json:"dealer_number" validate:"required,notblank,max=50"`
	Password     string `json:"password" validate:"required,max=72"`
}
