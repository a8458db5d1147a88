package history

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/database"
	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

const defaultListLimit = 100

// Components stores a score breakdown as a JSONB column.
type Components models.ScoreComponents

// Value implements driver.Valuer.
func (c Components) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Components) Scan(src interface{}) error {
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unexpected breakdown column type %T", src)
	}
	return json.Unmarshal(data, c)
}

// Record is one persisted composite score.
type Record struct {
	ID         string     `db:"id" json:"id"`
	EntityID   string     `db:"entity_id" json:"entityId"`
	EntityName string     `db:"entity_name" json:"entityName"`
	PeriodDays int        `db:"period_days" json:"periodDays"`
	Total      float64    `db:"total" json:"total"`
	Breakdown  Components `db:"breakdown" json:"breakdown"`
	RecordedAt time.Time  `db:"recorded_at" json:"recordedAt"`
}

// Repository persists composite scores for trend charts. The live
// scoreboard never reads from here; history is append-only output.
type Repository struct {
	db *database.DB
}

// NewRepository creates a score history repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// RecordBoard persists every score of a board as one row per entity.
func (r *Repository) RecordBoard(ctx context.Context, board models.ScoreBoard, periodDays int) error {
	query := `
		INSERT INTO score_history (id, entity_id, entity_name, period_days, total, breakdown, recorded_at)
		VALUES (:id, :entity_id, :entity_name, :period_days, :total, :breakdown, :recorded_at)`

	now := time.Now().UTC()
	for _, score := range board.Scores {
		record := Record{
			ID:         uuid.New().String(),
			EntityID:   score.ID,
			EntityName: score.Name,
			PeriodDays: periodDays,
			Total:      score.Total,
			Breakdown:  Components(score.Breakdown),
			RecordedAt: now,
		}
		if _, err := r.db.DB().NamedExecContext(ctx, query, record); err != nil {
			return fmt.Errorf("failed to record score for %s: %w", score.ID, err)
		}
	}

	logger.Debug("scoreboard recorded",
		zap.Int("entities", len(board.Scores)),
		zap.Int("period_days", periodDays),
	)
	return nil
}

// ListByEntity returns the most recent records of one entity, newest
// first.
func (r *Repository) ListByEntity(ctx context.Context, entityID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var records []Record
	err := r.db.DB().SelectContext(ctx, &records, `
		SELECT id, entity_id, entity_name, period_days, total, breakdown, recorded_at
		FROM score_history
		WHERE entity_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2`,
		entityID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history for %s: %w", entityID, err)
	}
	return records, nil
}

// ListRecent returns the most recent records across all entities.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var records []Record
	err := r.db.DB().SelectContext(ctx, &records, `
		SELECT id, entity_id, entity_name, period_days, total, breakdown, recorded_at
		FROM score_history
		ORDER BY recorded_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}
