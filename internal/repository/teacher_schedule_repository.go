package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sma-duty-roster/api/internal/models"
)

// TeacherScheduleRepository persists weekly lesson grids and the
// manual duty pins recorded against them.
type TeacherScheduleRepository struct {
	db *sqlx.DB
}

// NewTeacherScheduleRepository constructs the repository.
func NewTeacherScheduleRepository(db *sqlx.DB) *TeacherScheduleRepository {
	return &TeacherScheduleRepository{db: db}
}

// List returns every stored schedule as a summary projection.
func (r *TeacherScheduleRepository) List(ctx context.Context) ([]models.TeacherScheduleSummary, error) {
	const query = `SELECT teacher_code, teacher_name, is_verified,
       jsonb_array_length(schedule_json::jsonb) AS slots_count
FROM teacher_schedules ORDER BY teacher_code ASC`
	var summaries []models.TeacherScheduleSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list teacher schedules: %w", err)
	}
	return summaries, nil
}

// GetByCode returns the full schedule for a teacher code.
func (r *TeacherScheduleRepository) GetByCode(ctx context.Context, teacherCode string) (*models.TeacherSchedule, error) {
	const query = `SELECT id, teacher_code, teacher_name, is_verified, schedule_json, manual_duties_json, created_at, updated_at
FROM teacher_schedules WHERE teacher_code = $1`
	var sched models.TeacherSchedule
	if err := r.db.GetContext(ctx, &sched, query, teacherCode); err != nil {
		return nil, err
	}
	return &sched, nil
}

// ListAll returns every stored schedule in full, used by the solver
// wiring service to assemble teacher profiles for a solve.
func (r *TeacherScheduleRepository) ListAll(ctx context.Context) ([]models.TeacherSchedule, error) {
	const query = `SELECT id, teacher_code, teacher_name, is_verified, schedule_json, manual_duties_json, created_at, updated_at
FROM teacher_schedules ORDER BY teacher_code ASC`
	var scheds []models.TeacherSchedule
	if err := r.db.SelectContext(ctx, &scheds, query); err != nil {
		return nil, fmt.Errorf("list all teacher schedules: %w", err)
	}
	return scheds, nil
}

// Upsert creates or replaces a teacher's schedule. Saving a schedule
// always marks it verified, mirroring the behavior of the original
// paste-and-confirm workflow: a save is itself the verification step.
func (r *TeacherScheduleRepository) Upsert(ctx context.Context, sched *models.TeacherSchedule) error {
	if sched.ID == "" {
		sched.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = now
	}
	sched.UpdatedAt = now
	sched.IsVerified = true
	if len(sched.Schedule) == 0 {
		sched.Schedule = []byte("[]")
	}
	if len(sched.ManualDuties) == 0 {
		sched.ManualDuties = []byte("[]")
	}

	const query = `INSERT INTO teacher_schedules (id, teacher_code, teacher_name, is_verified, schedule_json, manual_duties_json, created_at, updated_at)
VALUES (:id, :teacher_code, :teacher_name, :is_verified, :schedule_json, :manual_duties_json, :created_at, :updated_at)
ON CONFLICT (teacher_code) DO UPDATE
SET teacher_name = EXCLUDED.teacher_name,
    is_verified = EXCLUDED.is_verified,
    schedule_json = EXCLUDED.schedule_json,
    manual_duties_json = EXCLUDED.manual_duties_json,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, sched); err != nil {
		return fmt.Errorf("upsert teacher schedule: %w", err)
	}
	return nil
}

// Delete removes a teacher's schedule.
func (r *TeacherScheduleRepository) Delete(ctx context.Context, teacherCode string) error {
	const query = `DELETE FROM teacher_schedules WHERE teacher_code = $1`
	if _, err := r.db.ExecContext(ctx, query, teacherCode); err != nil {
		return fmt.Errorf("delete teacher schedule: %w", err)
	}
	return nil
}
