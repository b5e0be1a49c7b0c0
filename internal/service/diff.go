package service

import "github.com/gestaolabs/sankhya-sync/internal/model"

// Diff is the outcome of reconciling a remote snapshot against the local
// one. The three sets are disjoint; records present on both sides with an
// identical payload and active locally appear in none of them.
type Diff struct {
	// Inserts are remote records with no local counterpart
	Inserts []model.RemoteRecord

	// Updates are remote records whose local counterpart has a differing
	// payload, or is soft-deleted and must be reactivated
	Updates []model.RemoteRecord

	// SoftDeletes are external ids of active local records that no longer
	// exist remotely
	SoftDeletes []string
}

// Empty reports whether the diff requires no writes
func (d Diff) Empty() bool {
	return len(d.Inserts) == 0 && len(d.Updates) == 0 && len(d.SoftDeletes) == 0
}

// Reconcile computes the insert, update and soft-delete sets between a full
// remote snapshot and a full local snapshot for one (tenant, entity type)
// pair. It is a pure function: all persistence happens in the caller.
// Running it twice against an unchanged remote snapshot yields an empty
// diff the second time.
func Reconcile(remote []model.RemoteRecord, local []model.LocalRecord) Diff {
	localByID := make(map[string]model.LocalRecord, len(local))
	for _, record := range local {
		localByID[record.ExternalID] = record
	}

	var diff Diff

	remoteIDs := make(map[string]struct{}, len(remote))
	for _, record := range remote {
		remoteIDs[record.ExternalID] = struct{}{}

		existing, ok := localByID[record.ExternalID]
		if !ok {
			diff.Inserts = append(diff.Inserts, record)
			continue
		}

		// A soft-deleted record reappearing remotely is an update that
		// reactivates it, never an insert
		if !existing.Active || !record.PayloadEquals(existing) {
			diff.Updates = append(diff.Updates, record)
		}
	}

	for _, record := range local {
		if !record.Active {
			continue
		}
		if _, ok := remoteIDs[record.ExternalID]; !ok {
			diff.SoftDeletes = append(diff.SoftDeletes, record.ExternalID)
		}
	}

	return diff
}
