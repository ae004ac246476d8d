package model

import (
	"crypto/rand"
	"time"

	"telegram-affiliate-bot/internal/domain"

	"github.com/oklog/ulid/v2"
)

// PostRecord logs one successful channel broadcast. It is bookkeeping only:
// a crash between send and append loses the record, never corrupts state.
type PostRecord struct {
	ID        string
	OfferID   string
	Channel   string
	MessageID int64
	PostedAt  time.Time
}

func NewPostRecord(offerID, channel string, messageID int64) (*PostRecord, error) {
	if offerID == "" || channel == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &PostRecord{
		ID:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		OfferID:   offerID,
		Channel:   channel,
		MessageID: messageID,
		PostedAt:  now,
	}, nil
}
