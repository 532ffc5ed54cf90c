package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"scooter-rent-backend/internal/logger"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id SERIAL PRIMARY KEY,
		telegram_id BIGINT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		username TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS scooters (
		id SERIAL PRIMARY KEY,
		client_id INTEGER NOT NULL REFERENCES clients(id),
		model TEXT NOT NULL DEFAULT '',
		vin TEXT NOT NULL DEFAULT '',
		tariff_type TEXT NOT NULL CHECK (tariff_type IN ('SINGLE_BATTERY', 'DUAL_BATTERY', 'BUYOUT')),
		weekly_price INTEGER NOT NULL CHECK (weekly_price > 0),
		buyout_weeks INTEGER,
		issue_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scooters_client ON scooters(client_id)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id SERIAL PRIMARY KEY,
		scooter_id INTEGER NOT NULL REFERENCES scooters(id) ON DELETE CASCADE,
		payment_date DATE NOT NULL,
		amount INTEGER NOT NULL CHECK (amount >= 0),
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at TIMESTAMPTZ,
		UNIQUE (scooter_id, payment_date),
		CHECK (is_paid = (paid_at IS NOT NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_unpaid_date ON payments(payment_date) WHERE is_paid = FALSE`,
	`CREATE TABLE IF NOT EXISTS payment_postpones (
		id SERIAL PRIMARY KEY,
		scooter_id INTEGER NOT NULL REFERENCES scooters(id) ON DELETE CASCADE,
		original_date DATE NOT NULL,
		scheduled_date DATE NOT NULL CHECK (scheduled_date > original_date),
		with_fine BOOLEAN NOT NULL DEFAULT FALSE,
		fine_amount INTEGER NOT NULL DEFAULT 0 CHECK (fine_amount >= 0),
		is_closed BOOLEAN NOT NULL DEFAULT FALSE,
		requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		closed_at TIMESTAMPTZ,
		CHECK (with_fine = (fine_amount > 0))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_payment_postpones_open ON payment_postpones(scooter_id) WHERE is_closed = FALSE`,
	`CREATE TABLE IF NOT EXISTS payment_confirmations (
		key TEXT PRIMARY KEY,
		client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		payment_ids INTEGER[] NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_confirmations_expires ON payment_confirmations(expires_at)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id SERIAL PRIMARY KEY,
		client_id INTEGER REFERENCES clients(id) ON DELETE SET NULL,
		chat_id BIGINT NOT NULL,
		kind TEXT NOT NULL,
		for_date DATE NOT NULL,
		message TEXT NOT NULL,
		attributes JSONB,
		sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_dedupe ON notifications(chat_id, kind, for_date)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrationStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	logger.Info("Database migrations applied", "statements", len(migrationStatements))
	return nil
}
