package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/config"
	"github.com/mbodji/aviary/internal/repository/mongodb"
	"github.com/mbodji/aviary/internal/scheduler"
	"github.com/mbodji/aviary/internal/server/handlers"
	"github.com/mbodji/aviary/internal/server/router"
	alertsvc "github.com/mbodji/aviary/internal/service/alerts"
	emailsvc "github.com/mbodji/aviary/internal/service/email"
	notifsvc "github.com/mbodji/aviary/internal/service/notifications"
	prefsvc "github.com/mbodji/aviary/internal/service/preferences"
	pushsvc "github.com/mbodji/aviary/internal/service/push"
	"github.com/mbodji/aviary/pkg/clients/mailer"
	"github.com/mbodji/aviary/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := repo.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure mongodb indexes", zap.Error(err))
	}

	mailClient := mailer.NewClient(cfg.Mailer)

	store := notifsvc.NewStore(repo, cfg.Alerts.SweepHardDelete, baseLogger.Named("svc.notifications"))
	prefService := prefsvc.NewService(repo, baseLogger.Named("svc.preferences"))
	pushDispatcher := pushsvc.NewDispatcher(repo, baseLogger.Named("svc.push"))
	emailDispatcher := emailsvc.NewDispatcher(mailClient, baseLogger.Named("svc.email"))

	orchestrator := alertsvc.NewOrchestrator(
		repo,
		repo,
		store,
		prefService,
		pushDispatcher,
		emailDispatcher,
		alertsvc.Options{
			Workers:      cfg.Alerts.Workers,
			OwnerTimeout: cfg.Alerts.OwnerTimeout,
			StoreTimeout: cfg.Alerts.StoreTimeout,
		},
		baseLogger.Named("svc.alerts"),
	)

	alertsHandler := handlers.NewAlertsHandler(orchestrator, baseLogger.Named("handlers.alerts"))
	notificationsHandler := handlers.NewNotificationsHandler(store, pushDispatcher, baseLogger.Named("handlers.notifications"))
	preferencesHandler := handlers.NewPreferencesHandler(prefService, baseLogger.Named("handlers.preferences"))
	engine := router.New(alertsHandler, notificationsHandler, preferencesHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Alerts, orchestrator, store, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
