package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands.
// Facade methods return display strings so the Telegram adapter just forwards
// them to the chat; keyboards are the adapter's concern.
type BotFacade struct {
	ReferralUC usecase.ReferralUseCase
	CatalogUC  usecase.CatalogUseCase
	StatsUC    usecase.StatsUseCase

	renderer      compactRenderer
	botUsername   string
	rewardPoints  int64
	rewardDollars float64
}

type compactRenderer interface {
	RenderCompact(offers []*model.Offer) string
}

func NewBotFacade(
	referralUC usecase.ReferralUseCase,
	catalogUC usecase.CatalogUseCase,
	statsUC usecase.StatsUseCase,
	renderer compactRenderer,
	botUsername string,
	rewardPoints int64,
	rewardDollars float64,
) *BotFacade {
	return &BotFacade{
		ReferralUC:    referralUC,
		CatalogUC:     catalogUC,
		StatsUC:       statsUC,
		renderer:      renderer,
		botUsername:   botUsername,
		rewardPoints:  rewardPoints,
		rewardDollars: rewardDollars,
	}
}

// HandleStart registers or fetches the user (crediting the inviter when a
// deep-link payload carries a valid foreign code) and returns the welcome text.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username, firstName, payload string) (string, error) {
	u, err := b.ReferralUC.RegisterUser(ctx, tgID, username, firstName, strings.TrimSpace(payload))
	if errors.Is(err, domain.ErrSelfReferral) {
		return fmt.Sprintf("You cannot use your own referral code.\n\n%s", b.welcomeText(u)), nil
	}
	if err != nil {
		return "", fmt.Errorf("register user: %w", err)
	}
	return b.welcomeText(u), nil
}

func (b *BotFacade) welcomeText(u *model.User) string {
	earnings := float64(u.ReferralCount) * b.rewardDollars
	return fmt.Sprintf(
		"🎉 *Welcome to LuxuryTrendBot!*\n\nHi %s! 👋\n\n🎯 *Your Stats:*\n📊 Referral Code: `%s`\n👥 Referrals: %d\n💎 Points: %d\n💵 Potential Earnings: $%.2f\n\n🚀 Share your referral link and earn %d points per signup.\nUse /referral for your dashboard.",
		u.DisplayName(), u.ReferralCode, u.ReferralCount, u.Points, earnings, b.rewardPoints,
	)
}

// HandleReferral returns the earning dashboard with the deep-link share URL.
func (b *BotFacade) HandleReferral(ctx context.Context, tgID int64) (string, error) {
	u, err := b.ReferralUC.GetUser(ctx, tgID)
	if errors.Is(err, domain.ErrNotFound) {
		return "❌ Please start the bot first with /start", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	link := b.ReferralLink(u)
	earnings := float64(u.ReferralCount) * b.rewardDollars
	return fmt.Sprintf(
		"💰 *Your Earning Dashboard*\n\n🎯 *Your Referral Link:*\n`%s`\n\n📊 *Current Performance:*\n👥 Referrals: %d\n💎 Points: %d\n💵 Earnings: $%.2f\n\n🚀 *Projections:*\n📈 100 referrals: $%.2f\n📈 1,000 referrals: $%.2f\n\n💰 Share your link and earn $%.2f per person!",
		link, u.ReferralCount, u.Points, earnings,
		100*b.rewardDollars, 1000*b.rewardDollars, b.rewardDollars,
	)
}

// ReferralLink builds the t.me deep link carrying the user's code.
func (b *BotFacade) ReferralLink(u *model.User) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", strings.TrimPrefix(b.botUsername, "@"), u.ReferralCode)
}

// HandleLeaderboard formats the top referrers with medals for the top three.
func (b *BotFacade) HandleLeaderboard(ctx context.Context, limit int) (string, error) {
	top, err := b.ReferralUC.Leaderboard(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("leaderboard: %w", err)
	}
	if len(top) == 0 {
		return "🏆 Be the first to earn! Share your referral link now!", nil
	}

	medals := []string{"🥇", "🥈", "🥉"}
	sb := strings.Builder{}
	sb.WriteString("🏆 *EARNINGS LEADERBOARD*\n\n")
	for i, u := range top {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		earnings := float64(u.ReferralCount) * b.rewardDollars
		fmt.Fprintf(&sb, "%s *%s* - %d referrals ($%.2f)\n", rank, u.DisplayName(), u.ReferralCount, earnings)
	}
	sb.WriteString("\n💰 Share your link to climb the rankings!")
	return sb.String(), nil
}

// HandleHotOffers samples three random offers for the inline flow.
func (b *BotFacade) HandleHotOffers(ctx context.Context) (string, error) {
	offers, err := b.CatalogUC.SampleRandom(ctx, 3)
	if err != nil {
		return "", fmt.Errorf("sample offers: %w", err)
	}
	return b.renderer.RenderCompact(offers), nil
}

// HandleHelp returns the static command overview.
func (b *BotFacade) HandleHelp() string {
	return fmt.Sprintf(
		"🤖 *LuxuryTrendBot Commands*\n\n/start - Set up your account\n/referral - Get your link & dashboard\n/leaderboard - See top earners\n/help - This menu\n\n🎯 *How it works:*\n1. Get your referral link with /referral\n2. Share it anywhere\n3. Earn %d points per person who joins",
		b.rewardPoints,
	)
}

// HandleStats summarizes aggregate totals for admin surfaces.
func (b *BotFacade) HandleStats(ctx context.Context) (string, error) {
	users, referrals, posts, err := b.StatsUC.Totals(ctx)
	if err != nil {
		return "", fmt.Errorf("stats: %w", err)
	}
	return fmt.Sprintf("📊 Users: %d\n🤝 Referrals: %d\n📣 Posts: %d", users, referrals, posts), nil
}
