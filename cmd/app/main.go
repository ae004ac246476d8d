package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-affiliate-bot/internal/application"
	"telegram-affiliate-bot/internal/config"
	"telegram-affiliate-bot/internal/content"
	"telegram-affiliate-bot/internal/domain/ports/adapter"
	tele "telegram-affiliate-bot/internal/infra/adapters/telegram"
	pg "telegram-affiliate-bot/internal/infra/db/postgres"
	"telegram-affiliate-bot/internal/infra/logging"
	"telegram-affiliate-bot/internal/infra/metrics"
	red "telegram-affiliate-bot/internal/infra/redis"
	"telegram-affiliate-bot/internal/infra/sched"
	"telegram-affiliate-bot/internal/infra/web"
	"telegram-affiliate-bot/internal/infra/worker"
	"telegram-affiliate-bot/internal/usecase"
)

// notifier defers the bot binding so the adapter and the usecases can
// reference each other without a construction cycle. Sends before the bot
// is wired are dropped.
type notifier struct{ bot adapter.TelegramBotAdapter }

func (n *notifier) SendMessage(ctx context.Context, tgID int64, text string) error {
	if n.bot == nil {
		return nil
	}
	return n.bot.SendMessage(ctx, tgID, text)
}

func (n *notifier) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	if n.bot == nil {
		return nil
	}
	return n.bot.SendButtons(ctx, tgID, text, rows)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop telegram, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema migration failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	eventRepo := pg.NewPostgresReferralEventRepo(pool)
	offerRepo := pg.NewPostgresOfferRepo(pool)
	postLogRepo := pg.NewPostgresPostLogRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Workers ----
	notifyPool := worker.NewPool(4, logger)
	notifyPool.Start(ctx)
	defer notifyPool.Stop()

	// ---- Content ----
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	renderer := content.NewRenderer(rng, cfg.Bot.Username, cfg.Channel.Tag)

	// ---- Use cases ----
	catalogUC := usecase.NewCatalogUseCase(offerRepo, txManager, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, eventRepo, postLogRepo, logger)

	// The bot adapter needs the facade and the referral usecase needs the bot
	// for inviter notifications; the late-bound notifier breaks that cycle.
	notify := &notifier{}
	referralUC := usecase.NewReferralUseCase(userRepo, eventRepo, txManager, notify, notifyPool, cfg.Referral.RewardPoints, logger)
	facade := application.NewBotFacade(
		referralUC, catalogUC, statsUC, renderer,
		cfg.Bot.Username, cfg.Referral.RewardPoints, cfg.Referral.RewardDollars,
	)

	// The dev path swaps Telegram for a log-only adapter so the whole loop
	// runs without a bot token.
	var (
		publisher adapter.ChannelPublisher
		realBot   *tele.RealBotAdapter
	)
	if cfg.Runtime.Dev || strings.EqualFold(cfg.Bot.Mode, "noop") {
		noop := tele.NewNoopBotAdapter(logger)
		notify.bot = noop
		publisher = noop
	} else {
		realBot, err = tele.NewRealBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram init failed")
		}
		notify.bot = realBot
		publisher = realBot
	}

	broadcastUC := usecase.NewBroadcastUseCase(catalogUC, renderer, publisher, postLogRepo, cfg.Channel.ID, logger)

	// ---- Catalog bootstrap ----
	if n, err := catalogUC.Seed(ctx); err != nil {
		logger.Fatal().Err(err).Msg("catalog seed failed")
	} else if n > 0 {
		logger.Info().Int("offers", n).Msg("catalog seeded")
	}

	// ---- Telegram polling ----
	if realBot != nil {
		go func() {
			if err := realBot.StartPolling(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- Publish worker ----
	publishWorker := sched.NewPublishWorker(
		cfg.Scheduler.Interval, cfg.Scheduler.InitialDelay, cfg.Scheduler.PublishTimeout,
		broadcastUC, logger,
	)
	go func() { _ = publishWorker.Run(ctx) }()

	// ---- Admin HTTP server ----
	webServer := web.NewServer(statsUC, referralUC, catalogUC, cfg.Admin.APIKey, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: webServer.Router(),
	}
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("admin server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	if realBot != nil {
		realBot.StopPolling()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	cancel()
}
