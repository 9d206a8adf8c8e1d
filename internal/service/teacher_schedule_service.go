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

type teacherScheduleRepository interface {
	List(ctx context.Context) ([]models.TeacherScheduleSummary, error)
	GetByCode(ctx context.Context, teacherCode string) (*models.TeacherSchedule, error)
	ListAll(ctx context.Context) ([]models.TeacherSchedule, error)
	Upsert(ctx context.Context, sched *models.TeacherSchedule) error
	Delete(ctx context.Context, teacherCode string) error
}

// ScheduleSlot is one lesson cell in a teacher's weekly grid, the wire
// shape persisted under TeacherSchedule.Schedule.
type ScheduleSlot struct {
	Day         string `json:"day"`
	LessonIndex int    `json:"lesson_index"`
	GroupCode   string `json:"group_code,omitempty"`
	RoomCode    string `json:"room_code,omitempty"`
	Subject     string `json:"subject,omitempty"`
	IsEmpty     bool   `json:"is_empty"`
}

// ManualDutySlot fixes a teacher to a duty zone for one break,
// overriding the solver's availability checks for that slot.
type ManualDutySlot struct {
	Day        string `json:"day"`
	BreakIndex int    `json:"break_index"`
	ZoneID     string `json:"zone_id,omitempty"`
	ZoneName   string `json:"zone_name,omitempty"`
}

// SaveScheduleRequest is the payload accepted by the schedule save
// endpoint: saving always marks the schedule verified.
type SaveScheduleRequest struct {
	TeacherName  string           `json:"teacher_name" validate:"required"`
	Schedule     []ScheduleSlot   `json:"schedule"`
	ManualDuties []ManualDutySlot `json:"manual_duties"`
}

// TeacherScheduleService manages weekly lesson grids and their manual
// duty pins.
type TeacherScheduleService struct {
	repo      teacherScheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherScheduleService constructs the service.
func NewTeacherScheduleService(repo teacherScheduleRepository, validate *validator.Validate, logger *zap.Logger) *TeacherScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherScheduleService{repo: repo, validator: validate, logger: logger}
}

// List returns every stored schedule as a summary.
func (s *TeacherScheduleService) List(ctx context.Context) ([]models.TeacherScheduleSummary, error) {
	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher schedules")
	}
	return summaries, nil
}

// Get returns the full schedule for a teacher code.
func (s *TeacherScheduleService) Get(ctx context.Context, teacherCode string) (*models.TeacherSchedule, error) {
	sched, err := s.repo.GetByCode(ctx, teacherCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return sched, nil
}

// Save upserts a teacher's weekly schedule and manual duty pins. A
// save is itself the verification step: the stored schedule is always
// marked verified.
func (s *TeacherScheduleService) Save(ctx context.Context, teacherCode string, req SaveScheduleRequest) (*models.TeacherSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	scheduleJSON, err := json.Marshal(req.Schedule)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	dutiesJSON, err := json.Marshal(req.ManualDuties)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual duties payload")
	}

	sched := &models.TeacherSchedule{
		TeacherCode:  teacherCode,
		TeacherName:  req.TeacherName,
		IsVerified:   true,
		Schedule:     types.JSONText(scheduleJSON),
		ManualDuties: types.JSONText(dutiesJSON),
	}

	existing, err := s.repo.GetByCode(ctx, teacherCode)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if existing != nil {
		sched.ID = existing.ID
		sched.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, sched); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	return sched, nil
}

// Delete removes a teacher's schedule.
func (s *TeacherScheduleService) Delete(ctx context.Context, teacherCode string) error {
	if _, err := s.repo.GetByCode(ctx, teacherCode); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if err := s.repo.Delete(ctx, teacherCode); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

// ParseText recovers lesson cells from a pasted weekly grid and groups
// them by teacher code for client-side review before a Save call.
func (s *TeacherScheduleService) ParseText(text, defaultRoom, defaultClass string) map[string][]ParsedLesson {
	parser := NewTextScheduleParser()
	lessons := parser.Parse(text, defaultRoom, defaultClass)
	return GroupByTeacher(lessons)
}
