package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gestaolabs/sankhya-sync/internal/metrics"
	"github.com/gestaolabs/sankhya-sync/internal/model"
	"go.uber.org/zap"
)

// syncRunner is the slice of SyncService the scheduler needs
type syncRunner interface {
	RunSync(ctx context.Context, tenantID int64, entityType model.EntityType) (*model.SyncRunResult, error)
}

// scheduleKey identifies one (tenant, entity type) schedule entry
type scheduleKey struct {
	TenantID   int64
	EntityType model.EntityType
}

// scheduleEntry is the registry state for one pair. The generation counter
// invalidates timer fires from timers that were since replaced or
// cancelled, so at most one timer is ever live per pair.
type scheduleEntry struct {
	config     model.AutoSyncConfig
	timer      *time.Timer
	generation uint64
}

// SchedulerService owns every AutoSyncConfig entry and its timer. Timer
// fires are passed as events to a dispatcher which launches each due run in
// its own goroutine, so a slow run never stalls other timers or incoming
// enable/disable calls.
type SchedulerService struct {
	runner  syncRunner
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	entries map[scheduleKey]*scheduleEntry
	started bool
	stopped bool

	events chan scheduleKey
	done   chan struct{}

	// minute is the duration of one interval unit; tests shrink it
	minute time.Duration
}

// NewSchedulerService creates a new scheduler
func NewSchedulerService(runner syncRunner, m *metrics.Metrics, logger *zap.Logger) *SchedulerService {
	return &SchedulerService{
		runner:  runner,
		metrics: m,
		logger:  logger,
		entries: make(map[scheduleKey]*scheduleEntry),
		events:  make(chan scheduleKey, 64),
		done:    make(chan struct{}),
		minute:  time.Minute,
	}
}

// Start launches the dispatcher. Must be called before any timer fires are
// expected to run.
func (s *SchedulerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.dispatch()

	s.logger.Info("Scheduler started")
}

// Enable turns on auto-sync for a pair and arms its timer. A previously
// armed timer for the same pair is replaced, never duplicated.
func (s *SchedulerService) Enable(tenantID int64, entityType model.EntityType, intervalMinutes int) (model.AutoSyncConfig, error) {
	if !entityType.Valid() {
		return model.AutoSyncConfig{}, fmt.Errorf("%w: entity type %q", ErrUnknownTarget, entityType)
	}
	if intervalMinutes <= 0 {
		return model.AutoSyncConfig{}, fmt.Errorf("interval must be positive, got %d", intervalMinutes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entry(tenantID, entityType)
	entry.config.Enabled = true
	entry.config.IntervalMinutes = intervalMinutes
	s.arm(entry)

	s.logger.Info("Auto-sync enabled",
		zap.Int64("tenant_id", tenantID),
		zap.String("entity_type", entityType.String()),
		zap.Int("interval_minutes", intervalMinutes),
		zap.Timep("next_run_at", entry.config.NextRunAt))

	return entry.config, nil
}

// Disable turns off auto-sync for a pair and cancels its pending timer. An
// in-flight run is not affected.
func (s *SchedulerService) Disable(tenantID int64, entityType model.EntityType) (model.AutoSyncConfig, error) {
	if !entityType.Valid() {
		return model.AutoSyncConfig{}, fmt.Errorf("%w: entity type %q", ErrUnknownTarget, entityType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entry(tenantID, entityType)
	s.cancel(entry)
	entry.config.Enabled = false
	entry.config.NextRunAt = nil

	s.logger.Info("Auto-sync disabled",
		zap.Int64("tenant_id", tenantID),
		zap.String("entity_type", entityType.String()))

	return entry.config, nil
}

// SetInterval changes the interval for a pair. While enabled, the pending
// timer is replaced by exactly one new timer measured from now.
func (s *SchedulerService) SetInterval(tenantID int64, entityType model.EntityType, intervalMinutes int) (model.AutoSyncConfig, error) {
	if !entityType.Valid() {
		return model.AutoSyncConfig{}, fmt.Errorf("%w: entity type %q", ErrUnknownTarget, entityType)
	}
	if intervalMinutes <= 0 {
		return model.AutoSyncConfig{}, fmt.Errorf("interval must be positive, got %d", intervalMinutes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entry(tenantID, entityType)
	entry.config.IntervalMinutes = intervalMinutes
	if entry.config.Enabled {
		s.arm(entry)
	}

	s.logger.Info("Auto-sync interval changed",
		zap.Int64("tenant_id", tenantID),
		zap.String("entity_type", entityType.String()),
		zap.Int("interval_minutes", intervalMinutes))

	return entry.config, nil
}

// Config returns the scheduling state for a pair, creating the entry with
// defaults on first request
func (s *SchedulerService) Config(tenantID int64, entityType model.EntityType) (model.AutoSyncConfig, error) {
	if !entityType.Valid() {
		return model.AutoSyncConfig{}, fmt.Errorf("%w: entity type %q", ErrUnknownTarget, entityType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entry(tenantID, entityType).config, nil
}

// Configs returns a snapshot of every schedule entry
func (s *SchedulerService) Configs() []model.AutoSyncConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	configs := make([]model.AutoSyncConfig, 0, len(s.entries))
	for _, entry := range s.entries {
		configs = append(configs, entry.config)
	}
	return configs
}

// Shutdown cancels every live timer and stops the dispatcher. The
// scheduler cannot be restarted afterwards.
func (s *SchedulerService) Shutdown() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for _, entry := range s.entries {
		s.cancel(entry)
	}
	s.mu.Unlock()

	close(s.done)
	s.logger.Info("Scheduler stopped")
}

// entry returns the registry entry for a pair, creating it with the
// default disabled configuration if absent. Caller holds s.mu.
func (s *SchedulerService) entry(tenantID int64, entityType model.EntityType) *scheduleEntry {
	key := scheduleKey{TenantID: tenantID, EntityType: entityType}
	entry, ok := s.entries[key]
	if !ok {
		entry = &scheduleEntry{
			config: model.AutoSyncConfig{
				TenantID:        tenantID,
				EntityType:      entityType,
				Enabled:         false,
				IntervalMinutes: model.DefaultSyncIntervalMinutes,
			},
		}
		s.entries[key] = entry
	}
	return entry
}

// arm replaces the entry's timer with one firing after the configured
// interval, measured from now. Caller holds s.mu.
func (s *SchedulerService) arm(entry *scheduleEntry) {
	s.cancel(entry)

	interval := time.Duration(entry.config.IntervalMinutes) * s.minute
	next := time.Now().Add(interval)
	entry.config.NextRunAt = &next

	entry.generation++
	generation := entry.generation
	key := scheduleKey{TenantID: entry.config.TenantID, EntityType: entry.config.EntityType}
	entry.timer = time.AfterFunc(interval, func() {
		s.onFire(key, generation)
	})

	s.metrics.TimerArmed()
}

// cancel stops the entry's pending timer if one is armed. Bumping the
// generation drops a fire that already escaped the timer. Caller holds s.mu.
func (s *SchedulerService) cancel(entry *scheduleEntry) {
	if entry.timer == nil {
		return
	}
	entry.timer.Stop()
	entry.timer = nil
	entry.generation++
	s.metrics.TimerCancelled()
}

// onFire handles a timer fire: rearm first, then hand the due pair to the
// dispatcher. Rearming happens regardless of how the run will end.
func (s *SchedulerService) onFire(key scheduleKey, generation uint64) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok || s.stopped || !entry.config.Enabled || entry.generation != generation {
		// Stale fire from a replaced or cancelled timer
		s.mu.Unlock()
		return
	}
	entry.timer = nil
	s.metrics.TimerCancelled()
	s.arm(entry)
	s.mu.Unlock()

	select {
	case s.events <- key:
	case <-s.done:
	}
}

// dispatch consumes due-run events and launches each run independently
func (s *SchedulerService) dispatch() {
	for {
		select {
		case <-s.done:
			return
		case key := <-s.events:
			s.metrics.RecordFire(key.EntityType.String())
			go s.runDue(key)
		}
	}
}

// runDue executes one scheduled run. Errors and failed results only reach
// the log; the schedule keeps going either way.
func (s *SchedulerService) runDue(key scheduleKey) {
	s.logger.Info("Scheduled sync due",
		zap.Int64("tenant_id", key.TenantID),
		zap.String("entity_type", key.EntityType.String()))

	result, err := s.runner.RunSync(context.Background(), key.TenantID, key.EntityType)
	if err != nil {
		s.logger.Warn("Scheduled sync did not start",
			zap.Int64("tenant_id", key.TenantID),
			zap.String("entity_type", key.EntityType.String()),
			zap.Error(err))
		return
	}

	if !result.Success {
		s.logger.Warn("Scheduled sync failed",
			zap.Int64("tenant_id", key.TenantID),
			zap.String("entity_type", key.EntityType.String()),
			zap.String("error", result.ErrorMessage))
	}
}
