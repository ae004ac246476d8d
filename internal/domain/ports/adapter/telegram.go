// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
	SendButtons(ctx context.Context, telegramID int64, text string, rows [][]InlineButton) error
}

// ChannelPublisher broadcasts rendered content to the public channel.
// The returned message ID feeds the post log; any error means "not posted".
type ChannelPublisher interface {
	Publish(ctx context.Context, channel string, text string) (messageID int64, err error)
}
