package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sma-duty-roster/api/internal/service"
	appErrors "github.com/sma-duty-roster/api/pkg/errors"
	"github.com/sma-duty-roster/api/pkg/response"
)

// ScheduleHandler manages teacher weekly schedule endpoints.
type ScheduleHandler struct {
	service *service.TeacherScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.TeacherScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List stored teacher schedules
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	summaries, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// Get godoc
// @Summary Get a teacher's weekly schedule
// @Tags Schedules
// @Produce json
// @Param code path string true "Teacher code"
// @Success 200 {object} response.Envelope
// @Router /schedules/{code} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	sched, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sched, nil)
}

// Save godoc
// @Summary Save (and verify) a teacher's weekly schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param code path string true "Teacher code"
// @Param payload body service.SaveScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{code} [put]
func (h *ScheduleHandler) Save(c *gin.Context) {
	var req service.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule payload"))
		return
	}
	sched, err := h.service.Save(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sched, nil)
}

// Delete godoc
// @Summary Delete a teacher's schedule
// @Tags Schedules
// @Produce json
// @Param code path string true "Teacher code"
// @Success 204
// @Router /schedules/{code} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// parseTextRequest is the payload accepted by the text-paste import endpoint.
type parseTextRequest struct {
	Text         string `json:"text" validate:"required"`
	DefaultRoom  string `json:"default_room"`
	DefaultClass string `json:"default_class"`
}

// ParseText godoc
// @Summary Recover lesson cells from a pasted weekly grid
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body parseTextRequest true "Pasted schedule text"
// @Success 200 {object} response.Envelope
// @Router /schedules/parse-text [post]
func (h *ScheduleHandler) ParseText(c *gin.Context) {
	var req parseTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid parse-text payload"))
		return
	}
	if req.Text == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "text is required"))
		return
	}
	byTeacher := h.service.ParseText(req.Text, req.DefaultRoom, req.DefaultClass)
	response.JSON(c, http.StatusOK, byTeacher, nil)
}
