package sched

import (
	"context"
	"time"

	"telegram-affiliate-bot/internal/usecase"

	"github.com/rs/zerolog"
)

// PublishWorker drives the periodic offer broadcast. It waits an initial
// delay before the first post, then publishes on every tick. A failed tick
// is logged and skipped; the cadence never stalls on a bad publish.
type PublishWorker struct {
	interval       time.Duration
	initialDelay   time.Duration
	publishTimeout time.Duration
	broadcastUC    usecase.BroadcastUseCase
	log            *zerolog.Logger
}

func NewPublishWorker(interval, initialDelay, publishTimeout time.Duration, broadcastUC usecase.BroadcastUseCase, logger *zerolog.Logger) *PublishWorker {
	compLog := logger.With().Str("component", "PublishWorker").Logger()
	return &PublishWorker{
		interval:       interval,
		initialDelay:   initialDelay,
		publishTimeout: publishTimeout,
		broadcastUC:    broadcastUC,
		log:            &compLog,
	}
}

func (w *PublishWorker) Run(ctx context.Context) error {
	w.log.Info().
		Dur("interval", w.interval).
		Dur("initial_delay", w.initialDelay).
		Msg("Starting publish worker")

	select {
	case <-ctx.Done():
		w.log.Info().Msg("Stopping publish worker")
		return ctx.Err()
	case <-time.After(w.initialDelay):
	}
	w.runPublish(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping publish worker")
			return ctx.Err()
		case <-ticker.C:
			w.runPublish(ctx)
		}
	}
}

func (w *PublishWorker) runPublish(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, w.publishTimeout)
	defer cancel()

	rec, err := w.broadcastUC.PublishNext(tickCtx)
	if err != nil {
		w.log.Error().Err(err).Msg("offer publish failed")
		return
	}
	w.log.Info().
		Str("post_id", rec.ID).
		Str("offer_id", rec.OfferID).
		Int64("message_id", rec.MessageID).
		Msg("offer published")
}
