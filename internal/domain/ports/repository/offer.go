package repository

import (
	"context"

	"telegram-affiliate-bot/internal/domain/model"
)

// -----------------------------
// Offers
// -----------------------------

type OfferRepository interface {
	SaveAll(ctx context.Context, tx Tx, offers []*model.Offer) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Offer, error)
	// SampleRandom returns up to n offers, uniformly without replacement.
	SampleRandom(ctx context.Context, tx Tx, n int) ([]*model.Offer, error)
	SampleByCategory(ctx context.Context, tx Tx, category model.Category, n int) ([]*model.Offer, error)
	CountOffers(ctx context.Context, tx Tx) (int, error)
}
