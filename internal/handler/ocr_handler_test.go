package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/sma-duty-roster/api/internal/service"
)

type visionClientMock struct {
	result *service.VisionSchedule
	err    error
}

func (m *visionClientMock) AnalyzeSchedule(ctx context.Context, imageBytes []byte, teacherCode string) (*service.VisionSchedule, error) {
	return m.result, m.err
}

func newUploadContext(t *testing.T, fieldValue string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "schedule.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-image-bytes"))
	require.NoError(t, err)
	if fieldValue != "" {
		require.NoError(t, writer.WriteField("teacher_code", fieldValue))
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/ocr/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
	return c, w
}

func TestOCRHandlerAnalyzeSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &visionClientMock{result: &service.VisionSchedule{TeacherCode: "JK"}}
	handler := NewOCRHandler(mock)

	c, w := newUploadContext(t, "JK")
	handler.Analyze(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestOCRHandlerAnalyzeMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOCRHandler(&visionClientMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/ocr/analyze", bytes.NewReader(nil))
	c.Request = req

	handler.Analyze(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOCRHandlerAnalyzeUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &visionClientMock{err: context.DeadlineExceeded}
	handler := NewOCRHandler(mock)

	c, w := newUploadContext(t, "")
	handler.Analyze(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
