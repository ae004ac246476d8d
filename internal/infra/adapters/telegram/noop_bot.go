package telegram

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"telegram-affiliate-bot/internal/domain/ports/adapter"
)

var (
	_ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)
	_ adapter.ChannelPublisher   = (*NoopBotAdapter)(nil)
)

// NoopBotAdapter implements the bot and publisher ports for local/dev runs.
// It logs messages instead of talking to Telegram.
type NoopBotAdapter struct {
	log       *zerolog.Logger
	messageID atomic.Int64
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	compLog := logger.With().Str("component", "NoopBotAdapter").Logger()
	return &NoopBotAdapter{log: &compLog}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-time.After(10 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", text).Msg("noop send")
	return nil
}

func (b *NoopBotAdapter) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-time.After(10 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", text).Int("button_rows", len(rows)).Msg("noop send with buttons")
	return nil
}

// Publish pretends the post went out and hands back a fresh message ID.
func (b *NoopBotAdapter) Publish(ctx context.Context, channel string, text string) (int64, error) {
	select {
	case <-time.After(10 * time.Millisecond):
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	id := b.messageID.Add(1)
	b.log.Info().Str("channel", channel).Int64("message_id", id).Str("text", text).Msg("noop publish")
	return id, nil
}
