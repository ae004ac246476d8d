package telegram

import (
	"context"

	"telegram-affiliate-bot/internal/domain/ports/adapter"
)

type commandHandler func(ctx context.Context, tgID int64, username, firstName, args string) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"/start":       r.handleStartCommand,
		"/referral":    r.handleReferralCommand,
		"/leaderboard": r.handleLeaderboardCommand,
		"/offers":      r.handleOffersCommand,
		"/help":        r.handleHelpCommand,
	}
}

// handleStartCommand registers the user; a deep-link payload carries the
// inviter's referral code.
func (r *RealBotAdapter) handleStartCommand(ctx context.Context, tgID int64, username, firstName, args string) error {
	text, err := r.facade.HandleStart(ctx, tgID, username, firstName, args)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("start command failed")
		return r.SendMessage(ctx, tgID, "Something went wrong. Please try again later.")
	}
	return r.sendMainMenu(ctx, tgID, text)
}

func (r *RealBotAdapter) handleReferralCommand(ctx context.Context, tgID int64, _, _, _ string) error {
	text, err := r.facade.HandleReferral(ctx, tgID)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("referral command failed")
		return r.SendMessage(ctx, tgID, "Something went wrong. Please try again later.")
	}
	return r.sendMainMenu(ctx, tgID, text)
}

func (r *RealBotAdapter) handleLeaderboardCommand(ctx context.Context, tgID int64, _, _, _ string) error {
	text, err := r.facade.HandleLeaderboard(ctx, leaderboardSize)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("leaderboard command failed")
		return r.SendMessage(ctx, tgID, "Something went wrong. Please try again later.")
	}
	return r.sendMainMenu(ctx, tgID, text)
}

func (r *RealBotAdapter) handleOffersCommand(ctx context.Context, tgID int64, _, _, _ string) error {
	text, err := r.facade.HandleHotOffers(ctx)
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("offers command failed")
		return r.SendMessage(ctx, tgID, "No offers available right now. Check back soon!")
	}
	return r.sendMainMenu(ctx, tgID, text)
}

func (r *RealBotAdapter) handleHelpCommand(ctx context.Context, tgID int64, _, _, _ string) error {
	return r.sendMainMenu(ctx, tgID, r.facade.HandleHelp())
}

// sendMainMenu appends the standard action buttons under any reply.
func (r *RealBotAdapter) sendMainMenu(ctx context.Context, tgID int64, text string) error {
	rows := [][]adapter.InlineButton{
		{{Text: "💰 Get My Referral Link", Data: "cb:referral"}},
		{{Text: "🔥 Hot Opportunities", Data: "cb:offers"}},
		{{Text: "🏆 Leaderboard", Data: "cb:leaderboard"}},
	}
	if err := r.SendButtons(ctx, tgID, text, rows); err != nil {
		// Fall back to a plain message when the keyboard is rejected.
		return r.SendMessage(ctx, tgID, text)
	}
	return nil
}
