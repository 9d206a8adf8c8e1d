package service

import (
	"context"
	"fmt"
)

// VisionSchedule is the structured result a vision analysis call
// returns: a teacher code plus the lesson cells recovered from the
// uploaded timetable photo, in the same shape a pasted-text import
// produces.
type VisionSchedule struct {
	TeacherCode string         `json:"teacher_code"`
	Lessons     []ParsedLesson `json:"lessons"`
}

// VisionClient analyzes a photographed weekly timetable and recovers
// its lesson grid. The real implementation calls out to a multimodal
// model; this seam exists so the upload plumbing in
// OCRHandler has something concrete to call without this repo taking
// a hard dependency on a specific vision provider or API key.
type VisionClient interface {
	AnalyzeSchedule(ctx context.Context, imageBytes []byte, teacherCode string) (*VisionSchedule, error)
}

// UnconfiguredVisionClient is the default VisionClient: it reports
// itself as unavailable rather than silently returning an empty
// schedule, mirroring vision_client.py's behaviour when no API key is
// present (HTTP 503 rather than a fabricated empty result).
type UnconfiguredVisionClient struct{}

// NewUnconfiguredVisionClient constructs the default, always-unavailable client.
func NewUnconfiguredVisionClient() *UnconfiguredVisionClient {
	return &UnconfiguredVisionClient{}
}

// AnalyzeSchedule always fails: no vision provider is configured.
func (c *UnconfiguredVisionClient) AnalyzeSchedule(ctx context.Context, imageBytes []byte, teacherCode string) (*VisionSchedule, error) {
	return nil, fmt.Errorf("vision client not configured")
}
