package model

import "time"

// DefaultSyncIntervalMinutes is the interval assigned when a schedule entry
// is first created.
const DefaultSyncIntervalMinutes = 30

// PresetSyncIntervals are the intervals offered by the configuration UI.
// The scheduler accepts any positive interval; these are only the
// recognized presets.
var PresetSyncIntervals = []int{15, 30, 60, 120, 180, 360, 720, 1440}

// AutoSyncConfig is the scheduling state for one (tenant, entity type) pair.
// Entries live only in the scheduler's registry; they are not persisted and
// do not survive a restart.
type AutoSyncConfig struct {
	TenantID        int64
	EntityType      EntityType
	Enabled         bool
	IntervalMinutes int
	NextRunAt       *time.Time
}
