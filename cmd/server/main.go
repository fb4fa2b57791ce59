// Command server runs the medication tracker HTTP API together with the
// background reminder and housekeeping jobs.
//
// @title          Medication Tracker API
// @version        1.0
// @description    Personal medication schedules, dose logging, adherence analytics and reminders.
// @BasePath       /api/v1
// @schemes        http https
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-med-tracker/internal/config"
	httpapi "github.com/tbourn/go-med-tracker/internal/http"
	"github.com/tbourn/go-med-tracker/internal/notify"
	"github.com/tbourn/go-med-tracker/internal/observability"
	"github.com/tbourn/go-med-tracker/internal/reference"
	"github.com/tbourn/go-med-tracker/internal/repo"
	"github.com/tbourn/go-med-tracker/internal/services"
	"github.com/tbourn/go-med-tracker/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

// setupOTel is swapped in tests.
var setupOTel = observability.SetupOTel

func main() {
	cfg := config.MustLoad()
	sysutil.ConfigureLogging(cfg.LogLevel, cfg.LogPretty, nil)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	shutdownOTel, err := setupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		return err
	}
	// Runs last, after the DB is closed, on every return path.
	defer func() {
		otelCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(otelCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeDB(db)

	ref, err := reference.Load(cfg.ReferencePath)
	if err != nil {
		return err
	}

	tracker := services.NewTrackerService(repo.NewKV(db), ref, cfg.Location)
	if cfg.AdherenceWindowDays > 0 {
		tracker.AdherenceWindowDays = cfg.AdherenceWindowDays
	}
	if cfg.RefillHorizonDays > 0 {
		tracker.RefillHorizonDays = cfg.RefillHorizonDays
	}
	if err := tracker.Load(ctx); err != nil {
		return err
	}

	sched, err := newScheduler(cfg, db, tracker)
	if err != nil {
		return err
	}
	sched.Start()

	r := gin.New()
	httpapi.RegisterRoutes(r, db, tracker, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", appVersion).
			Str("timezone", cfg.Location.String()).
			Int("medications", len(tracker.Medications())).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		sched.Stop()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sched.Stop()

	shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("server stopped")
	return nil
}

// newScheduler registers the reminder tick and the idempotency purge.
func newScheduler(cfg config.Config, db *gorm.DB, tracker *services.TrackerService) (*services.Scheduler, error) {
	sched := services.NewScheduler(cfg.Location)

	if cfg.RemindersEnabled {
		notifiers := notify.Fanout{notify.Log{Logger: log.Logger}}
		if cfg.Twilio.Enabled() {
			notifiers = append(notifiers, notify.NewWhatsApp(
				cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.WhatsAppNumber, cfg.Twilio.RecipientPhone,
			))
			log.Info().Msg("whatsapp reminders enabled")
		}
		reminders := services.NewReminderService(tracker, notifiers)
		if err := sched.Every("reminders", cfg.ReminderSpec, func(ctx context.Context) error {
			_, err := reminders.Tick(ctx)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if err := sched.Every("idempotency-purge", "@hourly", func(ctx context.Context) error {
		n, err := repo.PurgeExpiredIdempotency(ctx, db, time.Now().UTC())
		if n > 0 {
			log.Debug().Int64("rows", n).Msg("expired idempotency keys purged")
		}
		return err
	}); err != nil {
		return nil, err
	}
	return sched, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("database close")
	}
}
