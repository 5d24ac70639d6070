// internal/investment/history/recorder.go
package history

import (
	"context"
	"time"

	"investr-engine/internal/common/logger"
	"investr-engine/internal/models"
)

type Inserter interface {
	Insert(ctx context.Context, rec models.RecommendationRecord) error
}

type Indexer interface {
	Index(ctx context.Context, rec models.RecommendationRecord) error
}

// Recorder writes a record to the store and, when an indexer is configured,
// to the search index. Only the store write can fail a call.
type Recorder struct {
	store   Inserter
	indexer Indexer
	logger  logger.Logger
	now     func() time.Time
}

// NewRecorder returns a Recorder. indexer may be nil.
func NewRecorder(store Inserter, indexer Indexer, log logger.Logger) *Recorder {
	return &Recorder{
		store:   store,
		indexer: indexer,
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Record stamps rec with the current time when RecordedAt is zero and returns
// the stored record.
func (r *Recorder) Record(ctx context.Context, rec models.RecommendationRecord) (models.RecommendationRecord, error) {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = r.now()
	}

	if err := r.store.Insert(ctx, rec); err != nil {
		return rec, err
	}

	if r.indexer != nil {
		if err := r.indexer.Index(ctx, rec); err != nil {
			r.logger.Warn("Recommendation indexing failed", map[string]interface{}{
				"recommendationId": rec.RecommendationID,
				"error":            err,
			})
		}
	}
	return rec, nil
}
