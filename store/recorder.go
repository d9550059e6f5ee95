package store

import (
	"github.com/google/uuid"
	"github.com/pevans/marblecrawl"
)

// RunRecorder archives records into a single run as the crawler produces
// them. It is not safe for concurrent use.
type RunRecorder struct {
	store *ArtworkStore
	runID uuid.UUID
	count int
}

// NewRunRecorder returns a recorder that appends to runID.
func NewRunRecorder(store *ArtworkStore, runID uuid.UUID) *RunRecorder {
	return &RunRecorder{store: store, runID: runID}
}

// Record archives record after those already recorded.
func (r *RunRecorder) Record(record marblecrawl.DetailedRecord) error {
	if _, err := r.store.SaveArtwork(r.runID, r.count, record); err != nil {
		return err
	}
	r.count++
	return nil
}

// Count returns how many records have been archived.
func (r *RunRecorder) Count() int {
	return r.count
}

// Finish marks the run finished with the recorded count.
func (r *RunRecorder) Finish() error {
	return r.store.FinishRun(r.runID, r.count)
}
