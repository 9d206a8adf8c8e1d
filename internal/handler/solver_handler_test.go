package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sma-duty-roster/api/internal/models"
	"github.com/sma-duty-roster/api/internal/service"
	"github.com/sma-duty-roster/api/pkg/export"
	"github.com/sma-duty-roster/api/pkg/storage"
)

type solverScheduleRepoMock struct {
	byCode map[string]*models.TeacherSchedule
}

func (m *solverScheduleRepoMock) List(ctx context.Context) ([]models.TeacherScheduleSummary, error) {
	var out []models.TeacherScheduleSummary
	for _, s := range m.byCode {
		out = append(out, models.TeacherScheduleSummary{TeacherCode: s.TeacherCode, TeacherName: s.TeacherName, IsVerified: s.IsVerified})
	}
	return out, nil
}

func (m *solverScheduleRepoMock) GetByCode(ctx context.Context, teacherCode string) (*models.TeacherSchedule, error) {
	s, ok := m.byCode[teacherCode]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *solverScheduleRepoMock) ListAll(ctx context.Context) ([]models.TeacherSchedule, error) {
	var out []models.TeacherSchedule
	for _, s := range m.byCode {
		out = append(out, *s)
	}
	return out, nil
}

func (m *solverScheduleRepoMock) Upsert(ctx context.Context, sched *models.TeacherSchedule) error {
	m.byCode[sched.TeacherCode] = sched
	return nil
}

func (m *solverScheduleRepoMock) Delete(ctx context.Context, teacherCode string) error {
	delete(m.byCode, teacherCode)
	return nil
}

type solverConfigRepoMock struct {
	byKey map[string]*models.DutyConfig
}

func (m *solverConfigRepoMock) Get(ctx context.Context, key string) (*models.DutyConfig, error) {
	cfg, ok := m.byKey[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cfg, nil
}

func (m *solverConfigRepoMock) ListByKeys(ctx context.Context, keys []string) ([]models.DutyConfig, error) {
	var out []models.DutyConfig
	for _, k := range keys {
		if cfg, ok := m.byKey[k]; ok {
			out = append(out, *cfg)
		}
	}
	return out, nil
}

func (m *solverConfigRepoMock) Upsert(ctx context.Context, cfg *models.DutyConfig) error {
	m.byKey[cfg.Key] = cfg
	return nil
}

func putSolverConfig(repo *solverConfigRepoMock, key string, value interface{}) {
	raw, _ := json.Marshal(value)
	repo.byKey[key] = &models.DutyConfig{Key: key, Value: types.JSONText(raw)}
}

func newSolverHandlerForTest(t *testing.T) *SolverHandler {
	t.Helper()

	configRepo := &solverConfigRepoMock{byKey: map[string]*models.DutyConfig{}}
	putSolverConfig(configRepo, models.DutyConfigKeyZones, []map[string]string{{"id": "z1", "name": "Gimnazjum"}})
	putSolverConfig(configRepo, models.DutyConfigKeyBreaks, []map[string]interface{}{
		{"id": "b1", "name": "Big break", "after_lesson": 2, "duration_minutes": 20},
	})
	putSolverConfig(configRepo, models.DutyConfigKeyRequirements, map[string]map[string]int{"z1": {"b1": 1}})

	scheduleJSON, err := json.Marshal([]service.ScheduleSlot{
		{Day: "Mon", LessonIndex: 2, Subject: "Math"},
		{Day: "Mon", LessonIndex: 3, Subject: "Math"},
	})
	require.NoError(t, err)
	scheduleRepo := &solverScheduleRepoMock{byCode: map[string]*models.TeacherSchedule{
		"T1": {
			TeacherCode:  "T1",
			TeacherName:  "T1",
			IsVerified:   true,
			Schedule:     types.JSONText(scheduleJSON),
			ManualDuties: types.JSONText("[]"),
		},
	}}

	solverSvc := service.NewDutySolverService(scheduleRepo, configRepo, nil, 0, 0, zap.NewNop(), nil)

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	renderSvc := service.NewExportRenderService(store, signer, service.ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())

	return NewSolverHandler(solverSvc, renderSvc)
}

func TestSolverHandlerGenerateSucceeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSolverHandlerForTest(t)

	c, w := newGinContext(http.MethodPost, "/solver/generate", []byte(`{}`))
	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Status":"success"`)
}

func TestSolverHandlerGenerateRejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSolverHandlerForTest(t)

	c, w := newGinContext(http.MethodPost, "/solver/generate", []byte(`{not-json`))
	handler.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSolverHandlerCandidatesUnknownZoneReturnsErrorCandidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSolverHandlerForTest(t)

	payload, _ := json.Marshal(map[string]interface{}{"day": "Mon", "break_index": 2, "zone_name": "no-such-zone"})
	c, w := newGinContext(http.MethodPost, "/solver/candidates", payload)
	handler.Candidates(c)

	// SearchCandidates reports an unknown zone as a single ERROR-status
	// candidate rather than a bind-time validation failure.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ERROR"`)
}

func TestSolverHandlerCandidatesReturnsRankedList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSolverHandlerForTest(t)

	payload, _ := json.Marshal(map[string]interface{}{"day": "Mon", "break_index": 2, "zone_name": "Gimnazjum"})
	c, w := newGinContext(http.MethodPost, "/solver/candidates", payload)
	handler.Candidates(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"T1"`)
}

func TestSolverHandlerLastGeneratedNotFoundWhenNeverRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSolverHandlerForTest(t)

	c, w := newGinContext(http.MethodGet, "/solver/last", nil)
	handler.LastGenerated(c)

	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestSolverHandlerExportPDFByDayRejectsMissingAssignments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSolverHandlerForTest(t)

	c, w := newGinContext(http.MethodPost, "/solver/export/pdf", []byte(`{}`))
	handler.ExportPDFByDay(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSolverHandlerExportPDFByDayRendersPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSolverHandlerForTest(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"assignments": []map[string]interface{}{
			{"teacher_code": "T1", "day": "Mon", "break_index": 1, "zone_id": "z1", "zone_name": "Gimnazjum"},
		},
		"zones": []map[string]string{{"id": "z1", "name": "Gimnazjum"}},
	})
	c, w := newGinContext(http.MethodPost, "/solver/export/pdf", payload)
	handler.ExportPDFByDay(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}
