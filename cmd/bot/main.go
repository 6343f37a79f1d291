package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/dentist_booking_bot/internal/app"
	"github.com/Freeeeeet/dentist_booking_bot/internal/cache"
	"github.com/Freeeeeet/dentist_booking_bot/internal/clinicapi"
	"github.com/Freeeeeet/dentist_booking_bot/internal/config"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller"
	"github.com/Freeeeeet/dentist_booking_bot/internal/controller/state"
	"github.com/Freeeeeet/dentist_booking_bot/internal/httpapi"
	"github.com/Freeeeeet/dentist_booking_bot/internal/repository"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// Пояса клиник не зависят от tzdata в образе
	_ "time/tzdata"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dentist-bot",
		Short: "Telegram bot for booking dental appointments",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, mg *app.Migrator) error {
				return mg.Run(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, mg *app.Migrator) error {
				return mg.Status(ctx)
			})
		},
	})

	return cmd
}

func withMigrator(ctx context.Context, fn func(context.Context, *app.Migrator) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg.Environment, cfg.ServiceName, cfg.LogLevel)
	defer logger.Sync()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(ctx, migrator)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.ServiceName, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting dentist booking bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Location.String()),
		zap.String("booking_align", string(cfg.BookingAlign)),
		zap.String("edit_align", string(cfg.EditAlign)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := app.SetupTracing(ctx, app.TracingConfig{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  cfg.ServiceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSamplingRatio,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	// База данных
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Кэш справочника врачей (необязательный)
	var dentistCache service.DentistCache
	if cfg.RedisEnabled() {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		dentistCache = cache.NewDentistCache(rdb, cfg.DentistCacheTTL)
		logger.Info("✅ Connected to Redis", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("Redis is not configured, dentist directory cache disabled")
	}

	api, err := clinicapi.New(clinicapi.Config{
		BaseURL: cfg.ClinicAPIURL,
		Timeout: cfg.ClinicAPITimeout,
		RPS:     cfg.ClinicAPIRPS,
		Burst:   cfg.ClinicAPIBurst,
		Retries: cfg.ClinicAPIRetries,
	}, logger)
	if err != nil {
		return err
	}

	// Репозитории и сервисы
	patientRepo := repository.NewPatientRepository(pool)
	eventRepo := repository.NewBookingEventRepository(pool)

	clock := slots.NewClock(cfg.Location, time.Now)

	patientService := service.NewPatientService(patientRepo, api, time.Now, logger)
	dentistService := service.NewDentistService(api, dentistCache, logger)
	bookingService := service.NewBookingService(api, api, patientService, eventRepo, clock,
		service.BookingConfig{BookingAlign: cfg.BookingAlign, EditAlign: cfg.EditAlign}, logger)

	// Telegram
	stateManager := state.NewManager()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	botController := controller.NewBotController(b, patientService, dentistService, bookingService, stateManager, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	scheduler := app.NewScheduler(stateManager, cfg.SessionIdleTTL, 0, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := httpapi.NewServer(dentistService, bookingService, cfg.BookingAlign, logger)
	go func() {
		if err := server.Start(cfg.HTTPAddr); err != nil {
			logger.Error("HTTP API stopped", zap.Error(err))
			stop()
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shutdown HTTP API", zap.Error(err))
		}
	}()

	logger.Info("🤖 Bot is running")
	if err := botController.Start(ctx); err != nil {
		return err
	}

	logger.Info("Shutting down")
	return nil
}
