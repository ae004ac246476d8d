package usecase

import (
	"context"
	"errors"
	"fmt"

	"telegram-affiliate-bot/internal/domain"
	"telegram-affiliate-bot/internal/domain/model"
	"telegram-affiliate-bot/internal/domain/ports/adapter"
	"telegram-affiliate-bot/internal/domain/ports/repository"
	"telegram-affiliate-bot/internal/infra/logging"
	"telegram-affiliate-bot/internal/infra/metrics"
	"telegram-affiliate-bot/internal/infra/worker"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ReferralUseCase = (*referralUC)(nil)

// codeAllocAttempts bounds the register-retry loop on referral code collisions.
const codeAllocAttempts = 5

// ReferralUseCase is the ledger surface used by bot command flows.
//
// RegisterUser is idempotent per Telegram ID: replays return the existing user
// and never re-credit. When inviterCode is the caller's own code the user is
// still returned but the error is domain.ErrSelfReferral so the surface can
// show a rejection. An inviter code that resolves to nobody is silently
// ignored (user registered without a referrer).
type ReferralUseCase interface {
	RegisterUser(ctx context.Context, tgID int64, username, firstName, inviterCode string) (*model.User, error)
	GetUser(ctx context.Context, tgID int64) (*model.User, error)
	Leaderboard(ctx context.Context, limit int) ([]*model.User, error)
	EventsFor(ctx context.Context, referrerCode string) ([]*model.ReferralEvent, error)
}

type referralUC struct {
	users  repository.UserRepository
	events repository.ReferralEventRepository
	tm     repository.TransactionManager
	bot    adapter.TelegramBotAdapter
	pool   *worker.Pool
	reward int64
	log    *zerolog.Logger
}

func NewReferralUseCase(
	users repository.UserRepository,
	events repository.ReferralEventRepository,
	tm repository.TransactionManager,
	bot adapter.TelegramBotAdapter,
	pool *worker.Pool,
	rewardPoints int64,
	logger *zerolog.Logger,
) *referralUC {
	return &referralUC{
		users:  users,
		events: events,
		tm:     tm,
		bot:    bot,
		pool:   pool,
		reward: rewardPoints,
		log:    logger,
	}
}

func (u *referralUC) RegisterUser(ctx context.Context, tgID int64, username, firstName, inviterCode string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "ReferralUC.RegisterUser")()

	var (
		user     *model.User
		inviter  *model.User
		selfRef  bool
		credited bool
		created  bool
	)

	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	register := func(ctx context.Context, tx repository.Tx) error {
		user, inviter, selfRef, credited, created = nil, nil, false, false, false

		existing, err := u.users.FindByTelegramID(ctx, tx, tgID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			// Replay: no referral credit ever happens outside the creation
			// branch. Only refresh profile fields and activity.
			if username != "" && existing.Username != username {
				existing.Username = username
			}
			if firstName != "" && existing.FirstName != firstName {
				existing.FirstName = firstName
			}
			existing.Touch()
			if err := u.users.Save(ctx, tx, existing); err != nil {
				return err
			}
			selfRef = inviterCode != "" && inviterCode == existing.ReferralCode
			user = existing
			return nil
		}

		nu, err := model.NewUser("", tgID, username, firstName)
		if err != nil {
			return err
		}

		if inviterCode != "" {
			inv, err := u.users.FindByReferralCode(ctx, tx, inviterCode)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				// Unknown code: register without a referrer.
			case err != nil:
				return err
			case inv.TelegramID == tgID:
				selfRef = true
			default:
				inviter = inv
				nu.ReferredBy = &inv.TelegramID
			}
		}

		if err := u.users.Save(ctx, tx, nu); err != nil {
			return err
		}

		if inviter != nil {
			if err := u.users.CreditReferral(ctx, tx, inviter.ReferralCode, u.reward); err != nil {
				return fmt.Errorf("credit inviter: %w", err)
			}
			ev, err := model.NewReferralEvent(inviter.ReferralCode, tgID, u.reward)
			if err != nil {
				return err
			}
			if err := u.events.Append(ctx, tx, ev); err != nil {
				return err
			}
			credited = true
		}
		user = nu
		created = true
		return nil
	}

	// A unique violation on the freshly generated referral code (or a racing
	// registration of the same Telegram ID) aborts the transaction; retrying
	// restarts it with a new code and re-reads existing state.
	var err error
	for attempt := 0; attempt < codeAllocAttempts; attempt++ {
		err = u.tm.WithTx(ctx, txOpts, register)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		u.log.Debug().Int("attempt", attempt+1).Msg("referral code collision, retrying registration")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCodeExhausted, err)
	}

	if created {
		metrics.IncUserRegistered()
	}
	if credited && inviter != nil {
		metrics.IncReferralCredited()
		u.notifyInviter(inviter, user)
	}

	if selfRef {
		return user, domain.ErrSelfReferral
	}
	return user, nil
}

// notifyInviter is a best-effort post-commit hook. A failed or dropped
// notification never surfaces to the registration flow.
func (u *referralUC) notifyInviter(inviter, joined *model.User) {
	if u.bot == nil || u.pool == nil {
		return
	}
	tgID := inviter.TelegramID
	text := fmt.Sprintf(
		"💰 *REFERRAL REWARD EARNED!*\n\n👤 %s joined using your link!\n💎 +%d points earned\n🏆 Check stats: /referral",
		joined.DisplayName(), u.reward,
	)
	task := func(ctx context.Context) error {
		if err := u.bot.SendMessage(ctx, tgID, text); err != nil {
			u.log.Warn().Err(err).Int64("tg_id", tgID).Msg("referrer notification failed")
		}
		return nil
	}
	if err := u.pool.Submit(task); err != nil {
		u.log.Warn().Err(err).Int64("tg_id", tgID).Msg("could not queue referrer notification")
	}
}

func (u *referralUC) GetUser(ctx context.Context, tgID int64) (*model.User, error) {
	defer logging.TraceDuration(u.log, "ReferralUC.GetUser")()
	return u.users.FindByTelegramID(ctx, repository.NoTX, tgID)
}

func (u *referralUC) Leaderboard(ctx context.Context, limit int) ([]*model.User, error) {
	defer logging.TraceDuration(u.log, "ReferralUC.Leaderboard")()
	if limit <= 0 {
		limit = 10
	}
	return u.users.Leaderboard(ctx, repository.NoTX, limit)
}

func (u *referralUC) EventsFor(ctx context.Context, referrerCode string) ([]*model.ReferralEvent, error) {
	defer logging.TraceDuration(u.log, "ReferralUC.EventsFor")()
	return u.events.ListByReferrer(ctx, repository.NoTX, referrerCode)
}
