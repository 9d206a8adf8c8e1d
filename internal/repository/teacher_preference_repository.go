package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sma-duty-roster/api/internal/models"
)

// TeacherPreferenceRepository persists duty-zone preferences.
type TeacherPreferenceRepository struct {
	db *sqlx.DB
}

// NewTeacherPreferenceRepository constructs the repository.
func NewTeacherPreferenceRepository(db *sqlx.DB) *TeacherPreferenceRepository {
	return &TeacherPreferenceRepository{db: db}
}

// GetByTeacher returns stored preferences for a teacher code.
func (r *TeacherPreferenceRepository) GetByTeacher(ctx context.Context, teacherCode string) (*models.DutyPreference, error) {
	const query = `SELECT id, teacher_code, preferred_zones, created_at, updated_at FROM teacher_preferences WHERE teacher_code = $1`
	var pref models.DutyPreference
	if err := r.db.GetContext(ctx, &pref, query, teacherCode); err != nil {
		return nil, err
	}
	return &pref, nil
}

// Upsert creates or updates a teacher's duty-zone preferences.
func (r *TeacherPreferenceRepository) Upsert(ctx context.Context, pref *models.DutyPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now
	if len(pref.PreferredZones) == 0 {
		pref.PreferredZones = []byte("[]")
	}

	const query = `INSERT INTO teacher_preferences (id, teacher_code, preferred_zones, created_at, updated_at)
		VALUES (:id, :teacher_code, :preferred_zones, :created_at, :updated_at)
		ON CONFLICT (teacher_code) DO UPDATE
		SET preferred_zones = EXCLUDED.preferred_zones,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("upsert teacher preference: %w", err)
	}
	return nil
}
