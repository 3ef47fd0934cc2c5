package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mbodji/aviary/internal/domain/models"
)

// SnapshotReadError means the owner's entity state could not be loaded; it
// aborts that owner's run and nothing else.
type SnapshotReadError struct {
	OwnerID string
	Err     error
}

func (e *SnapshotReadError) Error() string {
	return fmt.Sprintf("read snapshot for owner %s: %v", e.OwnerID, e.Err)
}

func (e *SnapshotReadError) Unwrap() error { return e.Err }

// SnapshotSource loads the current state of one owner's breeding records.
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, ownerID string) (*models.OwnerSnapshot, error)
}

// OwnerDirectory enumerates owners for global runs and resolves recipients.
type OwnerDirectory interface {
	ListActiveOwners(ctx context.Context) ([]models.Owner, error)
	GetOwner(ctx context.Context, ownerID string) (*models.Owner, error)
}

// NotificationRecorder persists alerts as in-app notifications with
// natural-key dedup.
type NotificationRecorder interface {
	UpsertIfAbsent(ctx context.Context, alert models.Alert) (bool, error)
}

// PreferenceSource resolves per-owner notification preferences.
type PreferenceSource interface {
	Resolve(ctx context.Context, ownerID string) (*models.NotificationPreference, error)
}

// PushChannel escalates critical alerts to the push channel.
type PushChannel interface {
	MaybeDispatch(ctx context.Context, alert models.Alert, pref *models.NotificationPreference) (bool, error)
}

// EmailChannel sends best-effort emails for health alerts.
type EmailChannel interface {
	MaybeEmail(ctx context.Context, owner models.Owner, alert models.Alert, pref *models.NotificationPreference) bool
}

// Orchestrator composes snapshot reads, rule evaluation, classification,
// persistence and channel dispatch for one owner or all owners. All
// collaborators are injected; the orchestrator holds no state of its own.
type Orchestrator struct {
	snapshots    SnapshotSource
	owners       OwnerDirectory
	recorder     NotificationRecorder
	preferences  PreferenceSource
	push         PushChannel
	email        EmailChannel
	logger       *zap.Logger
	workers      int
	ownerTimeout time.Duration
	storeTimeout time.Duration
}

// Options tunes the orchestrator's fan-out and timeouts.
type Options struct {
	Workers      int
	OwnerTimeout time.Duration
	StoreTimeout time.Duration
}

// NewOrchestrator wires a new orchestrator instance.
func NewOrchestrator(
	snapshots SnapshotSource,
	owners OwnerDirectory,
	recorder NotificationRecorder,
	preferences PreferenceSource,
	push PushChannel,
	email EmailChannel,
	opts Options,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.OwnerTimeout <= 0 {
		opts.OwnerTimeout = 30 * time.Second
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 10 * time.Second
	}
	return &Orchestrator{
		snapshots:    snapshots,
		owners:       owners,
		recorder:     recorder,
		preferences:  preferences,
		push:         push,
		email:        email,
		logger:       logger,
		workers:      opts.Workers,
		ownerTimeout: opts.OwnerTimeout,
		storeTimeout: opts.StoreTimeout,
	}
}

// RunForOwner executes the full Snapshot -> Evaluate -> Classify -> Persist ->
// Dispatch pipeline for one owner. Only a failed snapshot read aborts the run;
// every per-candidate failure is recorded in the result and processing
// continues.
func (o *Orchestrator) RunForOwner(ctx context.Context, ownerID string, now time.Time) (*models.RunResult, error) {
	owner := models.Owner{ID: ownerID}
	if resolved, err := o.owners.GetOwner(ctx, ownerID); err != nil {
		o.logger.Warn("owner lookup failed, continuing without email recipient",
			zap.String("owner_id", ownerID), zap.Error(err))
	} else {
		owner = *resolved
	}
	return o.runForOwner(ctx, owner, now)
}

func (o *Orchestrator) runForOwner(ctx context.Context, owner models.Owner, now time.Time) (*models.RunResult, error) {
	result := &models.RunResult{OwnerID: owner.ID, RanAt: now}

	snapCtx, cancel := context.WithTimeout(ctx, o.storeTimeout)
	snapshot, err := o.snapshots.GetSnapshot(snapCtx, owner.ID)
	cancel()
	if err != nil {
		return nil, &SnapshotReadError{OwnerID: owner.ID, Err: err}
	}

	pref, err := o.preferences.Resolve(ctx, owner.ID)
	if err != nil {
		// A broken preference read must not silence alerts; fall back to the
		// defaults and record the failure.
		o.logger.Warn("preference resolve failed, using defaults",
			zap.String("owner_id", owner.ID), zap.Error(err))
		result.Errors = append(result.Errors, fmt.Sprintf("resolve preferences: %v", err))
		pref = models.DefaultPreference(owner.ID)
	}

	candidates := EvaluateAll(snapshot, now)
	result.Alerts = candidates

	for _, alert := range candidates {
		storeCtx, cancel := context.WithTimeout(ctx, o.storeTimeout)
		created, err := o.recorder.UpsertIfAbsent(storeCtx, alert)
		cancel()
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("persist %s alert for %s/%s: %v", alert.Type, alert.Payload.TargetType, alert.Payload.TargetID, err))
			continue
		}
		if !created {
			continue
		}
		result.NotificationsCreated++

		dispatchCtx, cancel := context.WithTimeout(ctx, o.storeTimeout)
		dispatched, err := o.push.MaybeDispatch(dispatchCtx, alert, pref)
		cancel()
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("dispatch push for %s alert %s/%s: %v", alert.Type, alert.Payload.TargetType, alert.Payload.TargetID, err))
		} else if dispatched {
			result.PushDispatched++
		}

		if alert.Type == models.AlertHealth {
			if o.email.MaybeEmail(ctx, owner, alert, pref) {
				result.EmailsSent++
			}
		}
	}

	o.logger.Info("owner alert run complete",
		zap.String("owner_id", owner.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("notifications_created", result.NotificationsCreated),
		zap.Int("push_dispatched", result.PushDispatched),
		zap.Int("emails_sent", result.EmailsSent),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// RunGlobal runs the pipeline for every active owner over a bounded worker
// pool. Owners share no mutable state, so no cross-owner locking is needed;
// one owner's failure never aborts the batch. Cancellation is honored between
// owners, not mid-owner.
func (o *Orchestrator) RunGlobal(ctx context.Context, now time.Time) (*models.GlobalRunResult, error) {
	global := &models.GlobalRunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make(map[string]*models.RunResult),
		Failures:  make(map[string]string),
	}

	listCtx, cancel := context.WithTimeout(ctx, o.storeTimeout)
	owners, err := o.owners.ListActiveOwners(listCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("list active owners: %w", err)
	}

	o.logger.Info("global alert run started",
		zap.String("run_id", global.RunID), zap.Int("owners", len(owners)))

	var mu sync.Mutex
	var group errgroup.Group
	group.SetLimit(o.workers)

	for _, owner := range owners {
		if ctx.Err() != nil {
			o.logger.Warn("global alert run cancelled",
				zap.String("run_id", global.RunID), zap.Error(ctx.Err()))
			break
		}

		owner := owner
		group.Go(func() error {
			ownerCtx, cancel := context.WithTimeout(ctx, o.ownerTimeout)
			defer cancel()

			result, err := o.runForOwner(ownerCtx, owner, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				global.Failures[owner.ID] = err.Error()
			} else {
				global.Results[owner.ID] = result
			}
			return nil
		})
	}

	_ = group.Wait()
	global.FinishedAt = time.Now()

	o.logger.Info("global alert run finished",
		zap.String("run_id", global.RunID),
		zap.Int("succeeded", len(global.Results)),
		zap.Int("failed", len(global.Failures)))

	return global, nil
}
