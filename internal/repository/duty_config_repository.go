package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sma-duty-roster/api/internal/models"
)

// DutyConfigRepository persists the generic key/value settings blobs
// the solver's zones, breaks, topology, proximity, rules and the last
// generated roster are all stored under.
type DutyConfigRepository struct {
	db *sqlx.DB
}

// NewDutyConfigRepository constructs the repository.
func NewDutyConfigRepository(db *sqlx.DB) *DutyConfigRepository {
	return &DutyConfigRepository{db: db}
}

// Get fetches a single config entry by key.
func (r *DutyConfigRepository) Get(ctx context.Context, key string) (*models.DutyConfig, error) {
	const query = `SELECT id, key, value_json, created_at, updated_at FROM duty_configs WHERE key = $1`
	var cfg models.DutyConfig
	if err := r.db.GetContext(ctx, &cfg, query, key); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListByKeys returns config entries whose key is in the provided slice.
func (r *DutyConfigRepository) ListByKeys(ctx context.Context, keys []string) ([]models.DutyConfig, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT id, key, value_json, created_at, updated_at
FROM duty_configs WHERE key IN (%s) ORDER BY key ASC`, placeholders(len(keys)))
	args := make([]interface{}, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	var cfgs []models.DutyConfig
	if err := r.db.SelectContext(ctx, &cfgs, query, args...); err != nil {
		return nil, fmt.Errorf("list duty configs: %w", err)
	}
	return cfgs, nil
}

// Upsert inserts or updates a config entry by key.
func (r *DutyConfigRepository) Upsert(ctx context.Context, cfg *models.DutyConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	const query = `INSERT INTO duty_configs (id, key, value_json, created_at, updated_at)
VALUES (:id, :key, :value_json, :created_at, :updated_at)
ON CONFLICT (key) DO UPDATE
SET value_json = EXCLUDED.value_json, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert duty config: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	values := make([]string, n)
	for i := 1; i <= n; i++ {
		values[i-1] = fmt.Sprintf("$%d", i)
	}
	return strings.Join(values, ",")
}
