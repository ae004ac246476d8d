package repository

import (
	"context"

	"telegram-affiliate-bot/internal/domain/model"
)

// -----------------------------
// Referral events (append-only)
// -----------------------------

type ReferralEventRepository interface {
	Append(ctx context.Context, tx Tx, ev *model.ReferralEvent) error
	ListByReferrer(ctx context.Context, tx Tx, referrerCode string) ([]*model.ReferralEvent, error)
	CountEvents(ctx context.Context, tx Tx) (int, error)
}
