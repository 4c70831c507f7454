package model

import "time"

// Distributor owns a roster of dealers.
type Distributor struct {
	DistributorNumber string    `json:"distributor_number"`
	PasswordHash      string    `json:"-"`
	Name              string    `json:"distributor_name"`
	Pincode           string    `json:"distributor_pincode"`
	CreatedAt         time.Time `json:"created_at"`
}

// RosterEntry is one entry of a distributor's dealer roster, derived from
// the dealers that reference the distributor as owner.
type RosterEntry struct {
	DealerNumber string    `json:"dealer_number"`
	Name         string    `json:"dealer_name"`
	Pincode      string    `json:"dealer_pincode"`
	CreatedAt    time.Time `json:"created_at"`
}

// DistributorResponse is the API projection for
// GET /api/distributors/:distributor_number.
type DistributorResponse struct {
	DistributorNumber string        `json:"distributor_number"`
	Name              string        `json:"distributor_name"`
	Pincode           string        `json:"distributor_pincode"`
	CreatedAt         time.Time     `json:"created_at"`
	DealerRoster      []RosterEntry `json:"dealer_roster"`
}

// CreateDistributorRequest is the DTO for POST /api/distributors.
type CreateDistributorRequest struct {
	DistributorNumber  string `json:"distributor_number" validate:"required,notblank,max=50"`
	Password           string `json:"password" validate:"required,min=6,max=72"`
	DistributorName    string `json:"distributor_name" validate:"required,notblank,max=100"`
	DistributorPincode string `json:"distributor_pincode" validate:"required,notblank,max=10"`
}

// DistributorLoginRequest is the DTO for POST /api/distributors/login.
type DistributorLoginRequest struct {
	DistributorNumber string `json:"distributor_number" validate:"required,notblank,max=50"`
	Password          string `json:"password" validate:"required,max=72"`
}
