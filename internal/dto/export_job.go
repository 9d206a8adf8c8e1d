package dto

import (
	"encoding/json"

	"github.com/sma-duty-roster/api/internal/models"
)

// ExportRequest captures POST /exports payload: the assignments to
// render are carried in the request itself rather than re-read from
// the stored roster, so a job renders exactly what the caller saw.
type ExportRequest struct {
	Type        models.ExportType   `json:"type"`
	Format      models.ExportFormat `json:"format"`
	Assignments json.RawMessage     `json:"assignments"`
	Zones       json.RawMessage     `json:"zones,omitempty"`
	BreakLabels map[string]string   `json:"break_labels,omitempty"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
