package usecase

import (
	"context"
	"fmt"
	"time"

	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/domain/ports/adapter"
	"telegram-affiliate-bot/internal/domain/ports/repository"
	"telegram-affiliate-bot/internal/infra/logging"
	"telegram-affiliate-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

// OfferRenderer is the slice of the content package the broadcast flow needs.
type OfferRenderer interface {
	Render(offer *model.Offer) string
}

// BroadcastUseCase publishes one offer to the channel and records the post.
// It is best-effort: a failed publish leaves no PostRecord and no other state
// change, and the next tick proceeds as if nothing happened.
type BroadcastUseCase interface {
	PublishNext(ctx context.Context) (*model.PostRecord, error)
}

type broadcastUC struct {
	catalog   CatalogUseCase
	renderer  OfferRenderer
	publisher adapter.ChannelPublisher
	postLog   repository.PostLogRepository
	channel   string
	log       *zerolog.Logger
}

func NewBroadcastUseCase(
	catalog CatalogUseCase,
	renderer OfferRenderer,
	publisher adapter.ChannelPublisher,
	postLog repository.PostLogRepository,
	channel string,
	logger *zerolog.Logger,
) *broadcastUC {
	return &broadcastUC{
		catalog:   catalog,
		renderer:  renderer,
		publisher: publisher,
		postLog:   postLog,
		channel:   channel,
		log:       logger,
	}
}

func (uc *broadcastUC) PublishNext(ctx context.Context) (*model.PostRecord, error) {
	defer logging.TraceDuration(uc.log, "BroadcastUC.PublishNext")()

	offers, err := uc.catalog.SampleRandom(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("sample offer: %w", err)
	}
	if len(offers) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	offer := offers[0]
	text := uc.renderer.Render(offer)

	start := time.Now()
	msgID, err := uc.publisher.Publish(ctx, uc.channel, text)
	metrics.ObservePublish(time.Since(start), err == nil)
	if err != nil {
		uc.log.Error().Err(err).Str("offer_id", offer.ID).Msg("channel publish failed")
		return nil, fmt.Errorf("publish offer: %w", err)
	}

	rec, err := model.NewPostRecord(offer.ID, uc.channel, msgID)
	if err != nil {
		return nil, err
	}
	if err := uc.postLog.Append(ctx, repository.NoTX, rec); err != nil {
		// The message is already out; losing the record is accepted, the log
		// is bookkeeping rather than a correctness-bearing store.
		uc.log.Error().Err(err).Str("offer_id", offer.ID).Msg("post record append failed after publish")
		return nil, fmt.Errorf("record post: %w", err)
	}

	uc.log.Info().Str("offer_id", offer.ID).Str("title", offer.Title).Int64("message_id", msgID).Msg("offer published")
	return rec, nil
}
