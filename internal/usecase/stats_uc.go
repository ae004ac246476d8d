package usecase

import (
	"context"

	"telegram-affiliate-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase reports aggregate counts. All figures are consistent reads of
// the underlying tables, never cached in-process counters.
type StatsUseCase interface {
	Totals(ctx context.Context) (users int, referrals int, posts int, err error)
}

type statsUC struct {
	users  repository.UserRepository
	events repository.ReferralEventRepository
	posts  repository.PostLogRepository

	log *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, events repository.ReferralEventRepository, posts repository.PostLogRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{users: users, events: events, posts: posts, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (int, int, int, error) {
	users, err := s.users.CountUsers(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, 0, err
	}
	referrals, err := s.events.CountEvents(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, 0, err
	}
	posts, err := s.posts.CountPosts(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, 0, err
	}
	return users, referrals, posts, nil
}
