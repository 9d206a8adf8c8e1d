package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/sma-duty-roster/api/internal/models"
	appErrors "github.com/sma-duty-roster/api/pkg/errors"
)

type teacherPreferenceRepo interface {
	GetByTeacher(ctx context.Context, teacherCode string) (*models.DutyPreference, error)
	Upsert(ctx context.Context, pref *models.DutyPreference) error
}

// UpsertTeacherPreferenceRequest captures the payload to store a
// teacher's preferred duty zones.
type UpsertTeacherPreferenceRequest struct {
	PreferredZones []string `json:"preferred_zones"`
}

// TeacherPreferenceService handles duty-zone preference logic.
type TeacherPreferenceService struct {
	teachers  teacherRepository
	repo      teacherPreferenceRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherPreferenceService builds the service.
func NewTeacherPreferenceService(teachers teacherRepository, repo teacherPreferenceRepo, validate *validator.Validate, logger *zap.Logger) *TeacherPreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherPreferenceService{
		teachers:  teachers,
		repo:      repo,
		validator: validate,
		logger:    logger,
	}
}

// Get returns stored preferences or defaults (empty preferred-zone set).
func (s *TeacherPreferenceService) Get(ctx context.Context, teacherCode string) (*models.DutyPreference, error) {
	if _, err := s.teachers.FindByCode(ctx, teacherCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	pref, err := s.repo.GetByTeacher(ctx, teacherCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.DutyPreference{
				TeacherCode:    teacherCode,
				PreferredZones: types.JSONText("[]"),
			}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}
	return pref, nil
}

// Upsert stores preferred duty zones for a teacher.
func (s *TeacherPreferenceService) Upsert(ctx context.Context, teacherCode string, req UpsertTeacherPreferenceRequest) (*models.DutyPreference, error) {
	if _, err := s.teachers.FindByCode(ctx, teacherCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	var raw types.JSONText = types.JSONText("[]")
	if len(req.PreferredZones) > 0 {
		bytes, err := json.Marshal(req.PreferredZones)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferred_zones payload")
		}
		raw = types.JSONText(bytes)
	}

	payload := &models.DutyPreference{
		TeacherCode:    teacherCode,
		PreferredZones: raw,
	}

	existing, err := s.repo.GetByTeacher(ctx, teacherCode)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}
	if existing != nil {
		payload.ID = existing.ID
		payload.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert teacher preferences")
	}
	return payload, nil
}
