package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wellnesscal/config"
	_ "wellnesscal/docs"
	"wellnesscal/internal/adapters/auth"
	"wellnesscal/internal/adapters/email"
	"wellnesscal/internal/adapters/google"
	deliveryhttp "wellnesscal/internal/delivery/http"
	"wellnesscal/internal/delivery/http/controllers"
	"wellnesscal/internal/observability"
	"wellnesscal/internal/repository/postgres"
	"wellnesscal/internal/services"
)

// @title Wellness Calendar API
// @version 1.0
// @description Calendar scheduling for the wellness app: conflict detection, slot suggestions, templates and calendar sync.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn("database not reachable at startup", "err", err)
	}
	cancelPing()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.MustNewMetrics(registry)

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	integrationRepo := postgres.NewIntegrationRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	syncFailureRepo := postgres.NewSyncFailureRepository(db)

	// Adapters
	provider := google.NewCalendarProvider(google.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		CalendarID:   cfg.Google.CalendarID,
	})
	stateSigner := auth.NewStateSigner(cfg.OAuthStateSecret, auth.DefaultStateTTL)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	// Services
	calendarService := services.NewCalendarService(services.CalendarDeps{
		Events:       eventRepo,
		Integrations: integrationRepo,
		Detector:     services.NewConflictDetector(eventRepo, logger, metrics),
		Slots:        services.NewSlotGenerator(eventRepo, logger, metrics, time.Now),
		Templates:    services.NewTemplateApplicator(templateRepo, logger),
		Syncer:       services.NewCalendarSyncer(provider, eventRepo, syncFailureRepo, logger, metrics, time.Now),
		Notifier:     services.NewEmailService(mailer, email.NewTemplateRenderer(), logger),
		Provider:     provider,
		StateSigner:  stateSigner,
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.RequestTimeout,
	})

	calendarController := controllers.NewCalendarController(logger, calendarService)
	router := deliveryhttp.NewRouter(logger, calendarController, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
