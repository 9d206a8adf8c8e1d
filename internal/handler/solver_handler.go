package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sma-duty-roster/api/internal/models"
	"github.com/sma-duty-roster/api/internal/service"
	appErrors "github.com/sma-duty-roster/api/pkg/errors"
	"github.com/sma-duty-roster/api/pkg/response"
)

// SolverHandler exposes the roster generation and candidate ranking
// endpoints, plus the direct (non-queued) PDF/CSV export shortcuts the
// roster board uses for an immediate download.
type SolverHandler struct {
	solver *service.DutySolverService
	render *service.ExportRenderService
}

// NewSolverHandler constructs handler.
func NewSolverHandler(solverSvc *service.DutySolverService, renderSvc *service.ExportRenderService) *SolverHandler {
	return &SolverHandler{solver: solverSvc, render: renderSvc}
}

// Candidates godoc
// @Summary Rank eligible teachers for one duty slot
// @Tags Solver
// @Accept json
// @Produce json
// @Param payload body service.CandidateSearchRequest true "Slot to rank"
// @Success 200 {object} response.Envelope
// @Router /solver/candidates [post]
func (h *SolverHandler) Candidates(c *gin.Context) {
	var req service.CandidateSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid candidate search payload"))
		return
	}
	candidates, err := h.solver.SearchCandidates(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}

// Generate godoc
// @Summary Run the duty roster solver
// @Tags Solver
// @Accept json
// @Produce json
// @Param payload body service.GenerateRosterRequest true "Request-scoped pins"
// @Success 200 {object} response.Envelope
// @Router /solver/generate [post]
func (h *SolverHandler) Generate(c *gin.Context) {
	var req service.GenerateRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid generate payload"))
		return
	}
	result, err := h.solver.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// LastGenerated godoc
// @Summary Fetch the last persisted roster
// @Tags Solver
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /solver/last [get]
func (h *SolverHandler) LastGenerated(c *gin.Context) {
	roster, err := h.solver.LastGenerated(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// directExportRequest mirrors the solver's own PDF export payload: the
// assignment list is supplied directly rather than looked up by job ID.
type directExportRequest struct {
	Assignments json.RawMessage   `json:"assignments"`
	Zones       json.RawMessage   `json:"zones"`
	BreakLabels map[string]string `json:"break_labels"`
}

// ExportPDFByDay godoc
// @Summary Render the provided assignments as a day-grouped PDF
// @Tags Solver
// @Accept json
// @Produce application/pdf
// @Param payload body directExportRequest true "Assignments to render"
// @Success 200 {file} binary
// @Router /solver/export/pdf [post]
func (h *SolverHandler) ExportPDFByDay(c *gin.Context) {
	h.renderDirect(c, models.ExportTypeRosterByDay, "dyzury.pdf")
}

// ExportPDFByZone godoc
// @Summary Render the provided assignments as a zone-grouped PDF
// @Tags Solver
// @Accept json
// @Produce application/pdf
// @Param payload body directExportRequest true "Assignments to render"
// @Success 200 {file} binary
// @Router /solver/export/pdf-zone [post]
func (h *SolverHandler) ExportPDFByZone(c *gin.Context) {
	h.renderDirect(c, models.ExportTypeRosterByZone, "dyzury_sektory.pdf")
}

func (h *SolverHandler) renderDirect(c *gin.Context, exportType models.ExportType, filename string) {
	var req directExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid export payload"))
		return
	}
	if len(req.Assignments) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "assignments payload is required"))
		return
	}
	payload, err := h.render.RenderDirect(exportType, models.ExportFormatPDF, req.Assignments, req.Zones, req.BreakLabels)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf generation failed"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}
