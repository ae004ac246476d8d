package model

import (
	"crypto/rand"
	"time"

	"telegram-affiliate-bot/internal/domain"

	"github.com/oklog/ulid/v2"
)

// ReferralEvent is an append-only audit record of one successful invite
// credit. At most one event exists per (referrer code, referred user) pair;
// the table enforces that with a unique index.
type ReferralEvent struct {
	ID           string
	ReferrerCode string
	ReferredTgID int64
	Points       int64
	CreatedAt    time.Time
}

func NewReferralEvent(referrerCode string, referredTgID int64, points int64) (*ReferralEvent, error) {
	if referrerCode == "" || referredTgID <= 0 || points <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &ReferralEvent{
		ID:           ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		ReferrerCode: referrerCode,
		ReferredTgID: referredTgID,
		Points:       points,
		CreatedAt:    now,
	}, nil
}
