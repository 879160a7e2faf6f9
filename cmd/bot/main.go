package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/telebot.v3"

	"time_recorder_bot/internal/app"
	"time_recorder_bot/internal/infra/config"
	idb "time_recorder_bot/internal/infra/database"
	"time_recorder_bot/internal/infra/logger"
	"time_recorder_bot/internal/infra/metrics"
	"time_recorder_bot/internal/infra/portal"
	"time_recorder_bot/internal/infra/scheduler"
	"time_recorder_bot/internal/infra/scraper"
	"time_recorder_bot/internal/infra/telegram"
)

func main() {
	fmt.Println("Time Recorder Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithField("environment", cfg.Environment).Info("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Database Connection
	db, err := idb.NewConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	store := idb.NewKeyValueRepository(db)
	prefs := app.NewPreferences(store, cfg.SiteID)
	creds := app.NewStaticCredentials(cfg.AccountID, cfg.UserID, cfg.Password)
	parser := scraper.New()

	session, err := portal.NewSession(portal.DefaultHosts, prefs, cfg.HTTPTimeout, logger.Component("portal_session"))
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create portal session")
	}

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	notifier := telegram.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.OwnerTelegramID, logger.Component("notifier"))
	reporter := app.NewErrorReporter(notifier, logger.Component("error_reporter"))

	portalService := app.NewPortalService(session, parser, creds, prefs, logger.Component("portal"))
	cache := app.NewStatusCache(store, time.Now, logger.Component("status_cache"))
	statusService := app.NewStatusService(parser, portalService, cache, prefs, creds, notifier, logger.Component("status"))
	statusService.Observe(app.NewTransitionNotifier(notifier).Observe)
	statusService.Observe(app.NewAnnouncer(prefs, notifier, time.Now, logger.Component("announcer")).Observe)
	workInfoService := app.NewWorkInfoService(portalService, parser, prefs, cfg.WorkInfoQuery, time.Now, logger.Component("workinfo"))
	mainLogger.Info("Services initialized.")

	telegram.RegisterBotCommands(ctx, bot, cfg.OwnerTelegramID, telegram.Services{
		Status:   statusService,
		WorkInfo: workInfoService,
		Prefs:    prefs,
		Notifier: notifier,
		Hosts:    portal.DefaultHosts,
	}, logger.Component("telegram"))
	mainLogger.Info("Command handlers registered.")

	recorderScheduler := scheduler.NewRecorderScheduler(
		statusService,
		prefs,
		notifier,
		reporter,
		logger.Component("scheduler"),
		cfg.CronSpecRefresh,
		cfg.CronSpecStartReminder,
		cfg.CronSpecLeaveReminder,
	)
	if err := recorderScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	var metricsServer *metrics.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr, logger.Component("metrics"))
		metricsServer.Start()
	}

	mainLogger.Info("Application setup complete. Bot and Scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Initial poll so the owner sees the current state right away
	go recorderScheduler.RunRefresh(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	cancel()
	recorderScheduler.Stop()
	bot.Stop()
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			mainLogger.WithError(err).Warn("Metrics endpoint shutdown failed")
		}
		shutdownCancel()
	}
	mainLogger.Info("Application shut down gracefully.")
}
