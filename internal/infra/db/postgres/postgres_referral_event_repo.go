package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/domain/ports/repository"
)

var _ repository.ReferralEventRepository = (*PostgresReferralEventRepo)(nil)

type PostgresReferralEventRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresReferralEventRepo(pool *pgxpool.Pool) *PostgresReferralEventRepo {
	return &PostgresReferralEventRepo{pool: pool}
}

// Append writes one immutable event. The unique (referrer_code, referred_tg_id)
// index turns a double credit into domain.ErrAlreadyExists, which aborts the
// surrounding transaction before any partial state commits.
func (r *PostgresReferralEventRepo) Append(ctx context.Context, tx repository.Tx, ev *model.ReferralEvent) error {
	const q = `
INSERT INTO referral_events (id, referrer_code, referred_tg_id, points, created_at)
VALUES ($1,$2,$3,$4,$5);
`
	_, err := pickExec(ctx, r.pool, tx, q, ev.ID, ev.ReferrerCode, ev.ReferredTgID, ev.Points, ev.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("append referral event: %w", domain.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

func (r *PostgresReferralEventRepo) ListByReferrer(ctx context.Context, tx repository.Tx, referrerCode string) ([]*model.ReferralEvent, error) {
	const q = `
SELECT id, referrer_code, referred_tg_id, points, created_at
  FROM referral_events WHERE referrer_code=$1 ORDER BY id;
`
	rows, err := pickQuery(ctx, r.pool, tx, q, referrerCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ReferralEvent
	for rows.Next() {
		var ev model.ReferralEvent
		if err := rows.Scan(&ev.ID, &ev.ReferrerCode, &ev.ReferredTgID, &ev.Points, &ev.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}

func (r *PostgresReferralEventRepo) CountEvents(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM referral_events;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count referral events: %w", err)
	}
	return n, nil
}
