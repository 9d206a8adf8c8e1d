package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sma-duty-roster/api/internal/service"
	appErrors "github.com/sma-duty-roster/api/pkg/errors"
	"github.com/sma-duty-roster/api/pkg/response"
)

// DutyConfigHandler exposes the generic solver settings store: zones,
// breaks, topology, proximity and rules are all saved and read through
// this one key/value surface.
type DutyConfigHandler struct {
	service *service.DutyConfigService
}

// NewDutyConfigHandler constructs handler.
func NewDutyConfigHandler(svc *service.DutyConfigService) *DutyConfigHandler {
	return &DutyConfigHandler{service: svc}
}

// Get godoc
// @Summary Get a stored config value by key
// @Tags Config
// @Produce json
// @Param key path string true "Config key"
// @Success 200 {object} response.Envelope
// @Router /config/{key} [get]
func (h *DutyConfigHandler) Get(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// Save godoc
// @Summary Save a config value by key
// @Tags Config
// @Accept json
// @Produce json
// @Param payload body service.SaveDutyConfigRequest true "Config payload"
// @Success 200 {object} response.Envelope
// @Router /config/save [post]
func (h *DutyConfigHandler) Save(c *gin.Context) {
	var req service.SaveDutyConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid config payload"))
		return
	}
	cfg, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}
