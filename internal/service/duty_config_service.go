package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/sma-duty-roster/api/internal/models"
	appErrors "github.com/sma-duty-roster/api/pkg/errors"
)

type dutyConfigRepository interface {
	Get(ctx context.Context, key string) (*models.DutyConfig, error)
	ListByKeys(ctx context.Context, keys []string) ([]models.DutyConfig, error)
	Upsert(ctx context.Context, cfg *models.DutyConfig) error
}

const dutyConfigCachePrefix = "duty_config:"

// SaveDutyConfigRequest is the payload accepted by the config save
// endpoint: any JSON value is accepted under any key, mirroring the
// permissive settings-blob store the solver's inputs live in.
type SaveDutyConfigRequest struct {
	Key   string          `json:"key" validate:"required"`
	Value json.RawMessage `json:"value"`
}

// DutyConfigService manages the generic key/value settings store the
// solver's zones, breaks, topology, proximity and rules are read from.
// Reads made through this service go through cache; any Save
// invalidates the whole prefix rather than tracking per-key fan-out.
type DutyConfigService struct {
	repo   dutyConfigRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewDutyConfigService constructs the service. cache may be nil; a nil
// or disabled CacheService degrades to always hitting the repository.
func NewDutyConfigService(repo dutyConfigRepository, cache *CacheService, logger *zap.Logger) *DutyConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DutyConfigService{repo: repo, cache: cache, logger: logger}
}

// Get returns the stored value for a key, or a nil value if the key
// has never been saved — keys are not required to pre-exist.
func (s *DutyConfigService) Get(ctx context.Context, key string) (*models.DutyConfig, error) {
	cacheKey := dutyConfigCachePrefix + "get:" + key
	var cached models.DutyConfig
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	cfg, err := s.repo.Get(ctx, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.DutyConfig{Key: key, Value: types.JSONText("null")}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load config")
	}
	_ = s.cache.Set(ctx, cacheKey, cfg, 0)
	return cfg, nil
}

// ListByKeys returns stored configs for the given keys, omitting any
// key that was never saved.
func (s *DutyConfigService) ListByKeys(ctx context.Context, keys []string) ([]models.DutyConfig, error) {
	cacheKey := dutyConfigCachePrefix + "list:" + cacheKeyForKeys(keys)
	var cached []models.DutyConfig
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	cfgs, err := s.repo.ListByKeys(ctx, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list configs")
	}
	_ = s.cache.Set(ctx, cacheKey, cfgs, 0)
	return cfgs, nil
}

// Save upserts a config entry by key.
func (s *DutyConfigService) Save(ctx context.Context, req SaveDutyConfigRequest) (*models.DutyConfig, error) {
	if req.Key == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "key is required")
	}
	value := req.Value
	if len(value) == 0 {
		value = json.RawMessage("null")
	}

	cfg := &models.DutyConfig{Key: req.Key, Value: types.JSONText(value)}
	existing, err := s.repo.Get(ctx, req.Key)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load config")
	}
	if existing != nil {
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save config")
	}
	_ = s.cache.Invalidate(ctx, dutyConfigCachePrefix+"*")
	return cfg, nil
}

func cacheKeyForKeys(keys []string) string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
