package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Table DDL, ordered so that foreign-key targets exist before their
// referencing tables. vouchers.owner_phone is UNIQUE: at most one voucher
// per user, enforced by the store even when two issuance requests race.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		phone_number VARCHAR(20) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS distributors (
		distributor_number VARCHAR(50) PRIMARY KEY,
		password_hash TEXT NOT NULL,
		name VARCHAR(100) NOT NULL,
		pincode VARCHAR(10) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS dealers (
		dealer_number VARCHAR(50) PRIMARY KEY,
		password_hash TEXT NOT NULL,
		name VARCHAR(100) NOT NULL,
		pincode VARCHAR(10) NOT NULL,
		distributor_number VARCHAR(50) NOT NULL REFERENCES distributors(distributor_number),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS vouchers (
		id VARCHAR(50) PRIMARY KEY,
		issued_at BIGINT NOT NULL,
		owner_phone VARCHAR(20) NOT NULL UNIQUE REFERENCES users(phone_number),
		status VARCHAR(16) NOT NULL DEFAULT 'not_redeemed',
		redeemed_by VARCHAR(50) REFERENCES dealers(dealer_number),
		redeemed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the application tables if they do not exist yet.
// Called once at startup after the pool is established.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	log.Info().Msg("database schema ensured")
	return nil
}
