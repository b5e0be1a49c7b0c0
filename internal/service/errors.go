package service

import "errors"

// ErrAlreadyRunning is returned when a sync run is requested for a
// (tenant, entity type) pair that already has a run in flight. Callers are
// expected to retry later; requests are never queued.
var ErrAlreadyRunning = errors.New("sync already running for this tenant and entity type")

// ErrUnknownTarget is returned when a sync run names a tenant or entity
// type the engine does not recognize.
var ErrUnknownTarget = errors.New("unknown tenant or entity type")
