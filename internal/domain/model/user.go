package model

import (
	"crypto/rand"
	"time"

	"telegram-affiliate-bot/internal/domain"

	"github.com/google/uuid"
)

// User is a domain entity representing a Telegram user with referral tracking.
// ReferredBy points at the inviter's Telegram ID and is informational only; it
// is set at most once, during registration, and never re-parented afterwards.
type User struct {
	ID            string
	TelegramID    int64
	Username      string
	FirstName     string
	ReferralCode  string
	ReferredBy    *int64
	ReferralCount int
	Points        int64
	RegisteredAt  time.Time
	LastActiveAt  time.Time
}

func NewUser(id string, tgID int64, username, firstName string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	u := &User{
		ID:           id,
		TelegramID:   tgID,
		Username:     username,
		FirstName:    firstName,
		ReferralCode: NewReferralCode(),
		RegisteredAt: time.Now(),
		LastActiveAt: time.Now(),
	}
	return u, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }

// DisplayName picks the best human-readable name for leaderboards and chats.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Anonymous"
}

const (
	referralCodePrefix   = "LUX"
	referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralCodeLength   = 6
)

// NewReferralCode returns a fresh candidate referral code. Uniqueness is not
// guaranteed here; the users table carries a unique index and callers retry
// with a new candidate on collision.
func NewReferralCode() string {
	buf := make([]byte, referralCodeLength)
	_, _ = rand.Read(buf)
	out := make([]byte, 0, len(referralCodePrefix)+referralCodeLength)
	out = append(out, referralCodePrefix...)
	for _, b := range buf {
		out = append(out, referralCodeAlphabet[int(b)%len(referralCodeAlphabet)])
	}
	return string(out)
}
