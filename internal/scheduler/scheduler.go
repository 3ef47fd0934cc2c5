package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/config"
	"github.com/mbodji/aviary/internal/domain/models"
)

// AlertRunner triggers a global alert run.
type AlertRunner interface {
	RunGlobal(ctx context.Context, now time.Time) (*models.GlobalRunResult, error)
}

// NotificationSweeper archives old, read notifications.
type NotificationSweeper interface {
	ArchiveSweep(ctx context.Context, retentionDays int) (int64, error)
}

// Scheduler manages the recurring alert runs and the retention sweep.
type Scheduler struct {
	cron    *cron.Cron
	runner  AlertRunner
	sweeper NotificationSweeper
	cfg     config.AlertsConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance in the configured timezone.
func NewScheduler(cfg config.AlertsConfig, runner AlertRunner, sweeper NotificationSweeper, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid scheduler timezone, falling back to UTC", zap.String("timezone", cfg.Timezone))
		location = time.UTC
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(location)),
		runner:  runner,
		sweeper: sweeper,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("alerts_schedule", s.cfg.CronSchedule),
		zap.String("sweep_schedule", s.cfg.SweepSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runGlobalAlerts); err != nil {
		s.logger.Error("failed to schedule global alert run", zap.Error(err))
	}
	if _, err := s.cron.AddFunc(s.cfg.SweepSchedule, s.runRetentionSweep); err != nil {
		s.logger.Error("failed to schedule retention sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runGlobalAlerts() {
	s.logger.Info("scheduled global alert run starting")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := s.runner.RunGlobal(ctx, time.Now())
	if err != nil {
		s.logger.Error("scheduled global alert run failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled global alert run finished",
		zap.String("run_id", result.RunID),
		zap.Int("owners_processed", len(result.Results)),
		zap.Int("owners_failed", len(result.Failures)))
}

func (s *Scheduler) runRetentionSweep() {
	s.logger.Info("scheduled retention sweep starting")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	affected, err := s.sweeper.ArchiveSweep(ctx, s.cfg.RetentionDays)
	if err != nil {
		s.logger.Error("scheduled retention sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled retention sweep finished", zap.Int64("affected", affected))
}
