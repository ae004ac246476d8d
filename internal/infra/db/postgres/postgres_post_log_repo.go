package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/domain/ports/repository"
)

var _ repository.PostLogRepository = (*PostgresPostLogRepo)(nil)

type PostgresPostLogRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPostLogRepo(pool *pgxpool.Pool) *PostgresPostLogRepo {
	return &PostgresPostLogRepo{pool: pool}
}

func (r *PostgresPostLogRepo) Append(ctx context.Context, tx repository.Tx, rec *model.PostRecord) error {
	const q = `
INSERT INTO post_log (id, offer_id, channel, message_id, posted_at)
VALUES ($1,$2,$3,$4,$5);
`
	if _, err := pickExec(ctx, r.pool, tx, q, rec.ID, rec.OfferID, rec.Channel, rec.MessageID, rec.PostedAt); err != nil {
		return fmt.Errorf("append post record: %w", err)
	}
	return nil
}

func (r *PostgresPostLogRepo) LastPost(ctx context.Context, tx repository.Tx) (*model.PostRecord, error) {
	const q = `
SELECT id, offer_id, channel, message_id, posted_at
  FROM post_log ORDER BY posted_at DESC LIMIT 1;
`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	var rec model.PostRecord
	if err := row.Scan(&rec.ID, &rec.OfferID, &rec.Channel, &rec.MessageID, &rec.PostedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresPostLogRepo) CountPosts(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM post_log;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}
