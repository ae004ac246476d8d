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

var _ repository.OfferRepository = (*PostgresOfferRepo)(nil)

type PostgresOfferRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresOfferRepo(pool *pgxpool.Pool) *PostgresOfferRepo {
	return &PostgresOfferRepo{pool: pool}
}

const offerColumns = `id, title, description, category, commission, gravity, affiliate_link, platform, created_at`

func (r *PostgresOfferRepo) SaveAll(ctx context.Context, tx repository.Tx, offers []*model.Offer) error {
	const q = `
INSERT INTO offers (id, title, description, category, commission, gravity, affiliate_link, platform, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);
`
	for _, o := range offers {
		if _, err := pickExec(ctx, r.pool, tx, q, o.ID, o.Title, o.Description, string(o.Category),
			o.Commission, o.Gravity, o.AffiliateLink, o.Platform, o.CreatedAt); err != nil {
			return fmt.Errorf("save offer %s: %w", o.Title, err)
		}
	}
	return nil
}

func (r *PostgresOfferRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+offerColumns+` FROM offers WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanOffer(row)
}

// SampleRandom relies on ORDER BY random(): the catalog stays small (dozens of
// offers), so a full shuffle per sample is fine.
func (r *PostgresOfferRepo) SampleRandom(ctx context.Context, tx repository.Tx, n int) ([]*model.Offer, error) {
	const q = `SELECT ` + offerColumns + ` FROM offers ORDER BY random() LIMIT $1;`
	rows, err := pickQuery(ctx, r.pool, tx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOffers(rows)
}

func (r *PostgresOfferRepo) SampleByCategory(ctx context.Context, tx repository.Tx, category model.Category, n int) ([]*model.Offer, error) {
	const q = `SELECT ` + offerColumns + ` FROM offers WHERE category=$1 ORDER BY random() LIMIT $2;`
	rows, err := pickQuery(ctx, r.pool, tx, q, string(category), n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOffers(rows)
}

func (r *PostgresOfferRepo) CountOffers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM offers;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return n, nil
}

func scanOffer(row pgx.Row) (*model.Offer, error) {
	var o model.Offer
	var cat string
	if err := row.Scan(&o.ID, &o.Title, &o.Description, &cat, &o.Commission, &o.Gravity,
		&o.AffiliateLink, &o.Platform, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Category = model.Category(cat).Normalize()
	return &o, nil
}

func collectOffers(rows pgx.Rows) ([]*model.Offer, error) {
	var out []*model.Offer
	for rows.Next() {
		var o model.Offer
		var cat string
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &cat, &o.Commission, &o.Gravity,
			&o.AffiliateLink, &o.Platform, &o.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		o.Category = model.Category(cat).Normalize()
		out = append(out, &o)
	}
	return out, rows.Err()
}
