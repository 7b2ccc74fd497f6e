package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ad/telegram-lead-admin/internal/bot"
	"github.com/ad/telegram-lead-admin/internal/config"
	"github.com/ad/telegram-lead-admin/internal/domain"
	"github.com/ad/telegram-lead-admin/internal/locale"
	"github.com/ad/telegram-lead-admin/internal/logger"
	"github.com/ad/telegram-lead-admin/internal/storage"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

func main() {
	// Load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logLevel := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(logLevel)
	log.Info("Starting Telegram Lead Admin Bot", "log_level", cfg.LogLevel)

	// Initialize database
	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		log.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if cfg.DatabasePath != config.InMemoryPath {
		// Enable WAL mode for better concurrency on a file-backed store
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			log.Error("Failed to enable WAL mode", "error", err)
			os.Exit(1)
		}
	}

	log.Info("Database opened", "path", cfg.DatabasePath)

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize DBQueue for safe concurrent access
	dbQueue := storage.NewDBQueue(db)
	defer dbQueue.Close()

	// Initialize database schema
	if err := storage.InitSchema(ctx, dbQueue); err != nil {
		log.Error("Failed to initialize database schema", "error", err)
		os.Exit(1)
	}

	// Run database migrations
	if err := storage.RunMigrations(ctx, dbQueue); err != nil {
		log.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	log.Info("Database schema ready")

	// Create repositories
	leadRepo := storage.NewLeadRepository(dbQueue)
	auditRepo := storage.NewAuditRepository(dbQueue)
	usageRepo := storage.NewUsageRepository(dbQueue)

	log.Info("Repositories created")

	// Create localizer
	localizer, err := locale.NewLocalizer(locale.NewLocale(cfg.Locale))
	if err != nil {
		log.Error("Failed to create localizer", "error", err)
		os.Exit(1)
	}

	// Create analytics
	analytics := domain.NewAnalytics(leadRepo, log)

	// Initialize Telegram bot
	b, err := tgbot.New(cfg.TelegramToken)
	if err != nil {
		log.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	log.Info("Telegram bot created")

	// Wire the admin surface: commands plus the callback router
	app := bot.NewApp(b, cfg, leadRepo, analytics, usageRepo, localizer, log)

	// Register command handlers
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, app.Commands.HandleStart)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, app.Commands.HandleHelp)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/admin", tgbot.MatchTypeExact, app.Commands.HandleAdmin)

	// Register callback query handler
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "", tgbot.MatchTypePrefix, app.Router.HandleCallback)

	log.Info("Handlers registered")

	// Start maintenance scheduler
	maintenance := domain.NewMaintenanceService(
		b,
		leadRepo,
		auditRepo,
		analytics,
		cfg.AdminUserID,
		cfg.RetentionDays,
		cfg.SummaryHour,
		cfg.Timezone,
		log.With("component", "maintenance"),
	)
	if err := maintenance.StartScheduler(ctx); err != nil {
		log.Error("Failed to start maintenance scheduler", "error", err)
		os.Exit(1)
	}

	log.Info("Maintenance scheduler started")

	// Start bot polling in a goroutine
	go func() {
		log.Info("Starting bot polling")
		b.Start(ctx)
	}()

	log.Info("Bot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("Shutdown signal received, stopping bot...")
	log.Info("Bot stopped successfully")
}
