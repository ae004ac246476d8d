package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the four tables on startup if they do not exist.
// The unique indexes on telegram_id, referral_code and the
// (referrer_code, referred_tg_id) pair are load-bearing: application code
// relies on the database to reject duplicates, not the other way around.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id             UUID PRIMARY KEY,
			telegram_id    BIGINT NOT NULL UNIQUE,
			username       TEXT NOT NULL DEFAULT '',
			first_name     TEXT NOT NULL DEFAULT '',
			referral_code  TEXT NOT NULL UNIQUE,
			referred_by    BIGINT,
			referral_count INT NOT NULL DEFAULT 0,
			points         BIGINT NOT NULL DEFAULT 0,
			registered_at  TIMESTAMPTZ NOT NULL,
			last_active_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS referral_events (
			id             TEXT PRIMARY KEY,
			referrer_code  TEXT NOT NULL,
			referred_tg_id BIGINT NOT NULL,
			points         BIGINT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL,
			UNIQUE (referrer_code, referred_tg_id)
		);`,
		`CREATE TABLE IF NOT EXISTS offers (
			id             UUID PRIMARY KEY,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			category       TEXT NOT NULL,
			commission     DOUBLE PRECISION NOT NULL DEFAULT 0,
			gravity        DOUBLE PRECISION NOT NULL DEFAULT 0,
			affiliate_link TEXT NOT NULL,
			platform       TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS post_log (
			id         TEXT PRIMARY KEY,
			offer_id   UUID NOT NULL,
			channel    TEXT NOT NULL,
			message_id BIGINT NOT NULL,
			posted_at  TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_leaderboard
			ON users (referral_count DESC, points DESC, registered_at ASC);`,
		`CREATE INDEX IF NOT EXISTS idx_offers_category ON offers (category);`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
