package repository

import (
	"context"

	"telegram-affiliate-bot/internal/domain/model"
)

// -----------------------------
// Post log (append-only)
// -----------------------------

type PostLogRepository interface {
	Append(ctx context.Context, tx Tx, rec *model.PostRecord) error
	LastPost(ctx context.Context, tx Tx) (*model.PostRecord, error)
	CountPosts(ctx context.Context, tx Tx) (int, error)
}
