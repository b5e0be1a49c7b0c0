package model

import (
	"maps"
	"time"
)

// RemoteRecord is a record as returned by the Sankhya API for one
// (tenant, entity type). It carries no local metadata.
type RemoteRecord struct {
	ExternalID string
	Payload    map[string]string
}

// LocalRecord is the persisted counterpart of a RemoteRecord. Records are
// never physically deleted; Active=false marks a soft delete.
type LocalRecord struct {
	ExternalID   string
	Payload      map[string]string
	Active       bool
	LastSyncedAt time.Time
}

// PayloadEquals compares the remote payload field by field against a local one
func (r RemoteRecord) PayloadEquals(local LocalRecord) bool {
	return maps.Equal(r.Payload, local.Payload)
}
