// Package history persists produced recommendations to Postgres and mirrors
// them into Elasticsearch for analytics.
package history

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/models"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS recommendation_history (
	recommendation_id TEXT PRIMARY KEY,
	property_title    TEXT NOT NULL DEFAULT '',
	price             NUMERIC(14, 2) NOT NULL,
	region            TEXT NOT NULL,
	recommendation    TEXT NOT NULL,
	confidence        NUMERIC(5, 1) NOT NULL,
	roi               NUMERIC(8, 2) NOT NULL,
	growth_rate       NUMERIC(6, 2) NOT NULL,
	model_version     TEXT NOT NULL,
	recorded_at       TIMESTAMPTZ NOT NULL
)`

const insertSQL = `
INSERT INTO recommendation_history (
	recommendation_id, property_title, price, region, recommendation,
	confidence, roi, growth_rate, model_version, recorded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (recommendation_id) DO NOTHING`

// PostgresStore writes history rows through database/sql.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the history table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create recommendation_history: %w", err)
	}
	return nil
}

// Insert stores rec. Re-recording the same id is a no-op so job retries are safe.
func (s *PostgresStore) Insert(ctx context.Context, rec models.RecommendationRecord) error {
	_, err := s.db.ExecContext(ctx, insertSQL,
		rec.RecommendationID,
		rec.PropertyTitle,
		rec.Price,
		rec.Region,
		rec.Recommendation,
		rec.Confidence,
		rec.ROI,
		rec.GrowthRate,
		rec.ModelVersion,
		rec.RecordedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}
