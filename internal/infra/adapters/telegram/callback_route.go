package telegram

import (
	"context"
)

type cbHandler func(ctx context.Context, chatID int64) error

// cbRoutes maps inline-button callback data to handlers. The surface is
// deliberately small; everything routes through the same facade calls as
// the slash commands.
func (r *RealBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		"cb:referral":    r.referralCBRoute,
		"cb:offers":      r.offersCBRoute,
		"cb:leaderboard": r.leaderboardCBRoute,
		"cb:help":        r.helpCBRoute,
	}
}

func (r *RealBotAdapter) referralCBRoute(ctx context.Context, chatID int64) error {
	text, err := r.facade.HandleReferral(ctx, chatID)
	if err != nil {
		return r.SendMessage(ctx, chatID, "Something went wrong. Please try again later.")
	}
	return r.sendMainMenu(ctx, chatID, text)
}

func (r *RealBotAdapter) offersCBRoute(ctx context.Context, chatID int64) error {
	text, err := r.facade.HandleHotOffers(ctx)
	if err != nil {
		return r.SendMessage(ctx, chatID, "No offers available right now. Check back soon!")
	}
	return r.sendMainMenu(ctx, chatID, text)
}

func (r *RealBotAdapter) leaderboardCBRoute(ctx context.Context, chatID int64) error {
	text, err := r.facade.HandleLeaderboard(ctx, leaderboardSize)
	if err != nil {
		return r.SendMessage(ctx, chatID, "Something went wrong. Please try again later.")
	}
	return r.sendMainMenu(ctx, chatID, text)
}

func (r *RealBotAdapter) helpCBRoute(ctx context.Context, chatID int64) error {
	return r.sendMainMenu(ctx, chatID, r.facade.HandleHelp())
}
