package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `id, telegram_id, username, first_name, referral_code, referred_by,
       referral_count, points, registered_at, last_active_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.ReferralCode,
		&u.ReferredBy, &u.ReferralCount, &u.Points, &u.RegisteredAt, &u.LastActiveAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Save inserts or updates a user. A unique violation on referral_code is
// reported as domain.ErrAlreadyExists so the caller can retry with a fresh
// code; the telegram_id index stays untouched by updates (conflict target is
// the primary key).
func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, telegram_id, username, first_name, referral_code, referred_by,
  referral_count, points, registered_at, last_active_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
) ON CONFLICT (id) DO UPDATE SET
  username=$3, first_name=$4, last_active_at=$10;
`
	_, err := pickExec(ctx, r.pool, tx, q, u.ID, u.TelegramID, u.Username, u.FirstName,
		u.ReferralCode, u.ReferredBy, u.ReferralCount, u.Points, u.RegisteredAt, u.LastActiveAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("save user: %w", domain.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE telegram_id=$1;`, tgID)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) FindByReferralCode(ctx context.Context, tx repository.Tx, code string) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE referral_code=$1;`, code)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) CreditReferral(ctx context.Context, tx repository.Tx, code string, points int64) error {
	const q = `
UPDATE users SET referral_count = referral_count + 1, points = points + $2
 WHERE referral_code = $1;
`
	tag, err := pickExec(ctx, r.pool, tx, q, code, points)
	if err != nil {
		return fmt.Errorf("credit referral: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) Leaderboard(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
	const q = `
SELECT ` + userColumns + `
  FROM users
 ORDER BY referral_count DESC, points DESC, registered_at ASC
 LIMIT $1;
`
	rows, err := pickQuery(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.ReferralCode,
			&u.ReferredBy, &u.ReferralCount, &u.Points, &u.RegisteredAt, &u.LastActiveAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
