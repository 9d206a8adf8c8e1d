package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sma-duty-roster/api/internal/service"
	appErrors "github.com/sma-duty-roster/api/pkg/errors"
	"github.com/sma-duty-roster/api/pkg/response"
)

// OCRHandler uploads a photographed weekly timetable and hands it to
// a VisionClient for analysis.
type OCRHandler struct {
	vision service.VisionClient
}

// NewOCRHandler constructs handler.
func NewOCRHandler(vision service.VisionClient) *OCRHandler {
	return &OCRHandler{vision: vision}
}

// Analyze godoc
// @Summary Analyze an uploaded timetable photo
// @Tags OCR
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Timetable photo"
// @Param teacher_code formData string false "Teacher code hint"
// @Success 200 {object} response.Envelope
// @Router /ocr/analyze [post]
func (h *OCRHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	imageBytes, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file"))
		return
	}

	teacherCode := c.PostForm("teacher_code")
	if teacherCode == "" {
		teacherCode = "UNKNOWN"
	}

	result, err := h.vision.AnalyzeSchedule(c.Request.Context(), imageBytes, teacherCode)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, http.StatusServiceUnavailable, "vision analysis unavailable"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
