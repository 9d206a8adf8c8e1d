package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sma-duty-roster/api/internal/models"
	"github.com/sma-duty-roster/api/internal/service"
)

func newScheduleHandlerForTest() (*ScheduleHandler, *solverScheduleRepoMock) {
	repo := &solverScheduleRepoMock{byCode: map[string]*models.TeacherSchedule{}}
	svc := service.NewTeacherScheduleService(repo, validator.New(), zap.NewNop())
	return NewScheduleHandler(svc), repo
}

func TestScheduleHandlerListReturnsSummaries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newScheduleHandlerForTest()
	repo.byCode["JK"] = &models.TeacherSchedule{TeacherCode: "JK", TeacherName: "Jan Kowalski"}

	c, w := newGinContext(http.MethodGet, "/schedules", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "JK")
}

func TestScheduleHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newScheduleHandlerForTest()

	c, w := newGinContext(http.MethodGet, "/schedules/missing", nil)
	c.Params = gin.Params{{Key: "code", Value: "missing"}}
	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerSaveMarksVerified(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newScheduleHandlerForTest()

	payload, _ := json.Marshal(service.SaveScheduleRequest{
		TeacherName: "Jan Kowalski",
		Schedule:    []service.ScheduleSlot{{Day: "Mon", LessonIndex: 1, Subject: "Math"}},
	})
	c, w := newGinContext(http.MethodPut, "/schedules/JK", payload)
	c.Params = gin.Params{{Key: "code", Value: "JK"}}
	handler.Save(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, repo.byCode, "JK")
	assert.True(t, repo.byCode["JK"].IsVerified)
}

func TestScheduleHandlerSaveRejectsMissingTeacherName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newScheduleHandlerForTest()

	payload, _ := json.Marshal(service.SaveScheduleRequest{})
	c, w := newGinContext(http.MethodPut, "/schedules/JK", payload)
	c.Params = gin.Params{{Key: "code", Value: "JK"}}
	handler.Save(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerDeleteRemovesExisting(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newScheduleHandlerForTest()
	repo.byCode["JK"] = &models.TeacherSchedule{TeacherCode: "JK"}

	c, w := newGinContext(http.MethodDelete, "/schedules/JK", nil)
	c.Params = gin.Params{{Key: "code", Value: "JK"}}
	handler.Delete(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, repo.byCode, "JK")
}

func TestScheduleHandlerParseTextRejectsEmptyText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newScheduleHandlerForTest()

	payload, _ := json.Marshal(map[string]string{"text": ""})
	c, w := newGinContext(http.MethodPost, "/schedules/parse-text", payload)
	handler.ParseText(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerParseTextGroupsByTeacher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newScheduleHandlerForTest()

	payload, _ := json.Marshal(map[string]string{"text": "1\tJK 1A-G1 Matematyka"})
	c, w := newGinContext(http.MethodPost, "/schedules/parse-text", payload)
	handler.ParseText(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"JK"`)
}
