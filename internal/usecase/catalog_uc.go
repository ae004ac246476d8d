package usecase

import (
	"context"

	"telegram-affiliate-bot/internal/content"
	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/domain/ports/repository"
	"telegram-affiliate-bot/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

// CatalogUseCase manages the promotable offer set. Sampling lazily seeds the
// built-in catalog instead of failing on an empty table.
type CatalogUseCase interface {
	// Seed populates the catalog from the built-in template set and returns
	// the number of offers inserted. It is a checked no-op when offers exist.
	Seed(ctx context.Context) (int, error)
	SampleRandom(ctx context.Context, n int) ([]*model.Offer, error)
	SampleByCategory(ctx context.Context, category model.Category, n int) ([]*model.Offer, error)
	Count(ctx context.Context) (int, error)
}

type catalogUC struct {
	offers repository.OfferRepository
	tm     repository.TransactionManager
	log    *zerolog.Logger
}

func NewCatalogUseCase(offers repository.OfferRepository, tm repository.TransactionManager, logger *zerolog.Logger) *catalogUC {
	return &catalogUC{offers: offers, tm: tm, log: logger}
}

func (c *catalogUC) Seed(ctx context.Context) (int, error) {
	defer logging.TraceDuration(c.log, "CatalogUC.Seed")()

	inserted := 0
	// The emptiness check and the inserts share one transaction so two racing
	// seeders cannot both populate the catalog.
	err := c.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		n, err := c.offers.CountOffers(ctx, tx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		seed, err := content.BuiltinOffers()
		if err != nil {
			return err
		}
		if err := c.offers.SaveAll(ctx, tx, seed); err != nil {
			return err
		}
		inserted = len(seed)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		c.log.Info().Int("offers", inserted).Msg("offer catalog seeded")
	}
	return inserted, nil
}

func (c *catalogUC) SampleRandom(ctx context.Context, n int) ([]*model.Offer, error) {
	defer logging.TraceDuration(c.log, "CatalogUC.SampleRandom")()
	if n <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if err := c.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	return c.offers.SampleRandom(ctx, repository.NoTX, n)
}

func (c *catalogUC) SampleByCategory(ctx context.Context, category model.Category, n int) ([]*model.Offer, error) {
	defer logging.TraceDuration(c.log, "CatalogUC.SampleByCategory")()
	if n <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if err := c.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	return c.offers.SampleByCategory(ctx, repository.NoTX, category.Normalize(), n)
}

func (c *catalogUC) Count(ctx context.Context) (int, error) {
	return c.offers.CountOffers(ctx, repository.NoTX)
}

func (c *catalogUC) ensureSeeded(ctx context.Context) error {
	n, err := c.offers.CountOffers(ctx, repository.NoTX)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = c.Seed(ctx)
	return err
}
