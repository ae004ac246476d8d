package repository

import (
	"context"

	"telegram-affiliate-bot/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByTelegramID(ctx context.Context, tx Tx, tgID int64) (*model.User, error)
	FindByReferralCode(ctx context.Context, tx Tx, code string) (*model.User, error)
	// CreditReferral increments the referral count and point balance of the
	// user owning `code`. Must run inside the registration transaction.
	CreditReferral(ctx context.Context, tx Tx, code string, points int64) error
	// Leaderboard returns users ordered by referral count desc, points desc,
	// registration time asc. Ordering must be deterministic under ties.
	Leaderboard(ctx context.Context, tx Tx, limit int) ([]*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
