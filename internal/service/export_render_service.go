package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sma-duty-roster/api/internal/models"
	"github.com/sma-duty-roster/api/pkg/export"
	"github.com/sma-duty-roster/api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// AssignmentDTO is one rendered duty assignment, the wire shape a
// render job's Params.Assignments payload unmarshals into.
type AssignmentDTO struct {
	TeacherCode string `json:"teacher_code"`
	TeacherName string `json:"teacher_name,omitempty"`
	Day         string `json:"day"`
	BreakID     string `json:"break_id"`
	BreakName   string `json:"break_name,omitempty"`
	BreakIndex  int    `json:"break_index"`
	ZoneID      string `json:"zone_id"`
	ZoneName    string `json:"zone_name"`
	IsPinned    bool   `json:"is_pinned,omitempty"`
	IsManual    bool   `json:"is_manual,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ZoneDTO describes one duty zone for dataset column ordering.
type ZoneDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExportRenderService builds roster export datasets and persists
// rendered files.
type ExportRenderService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportRenderService constructs an ExportRenderService.
func NewExportRenderService(storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportRenderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportRenderService{
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the dataset for a job's type and persists the
// rendered export.
func (s *ExportRenderService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/exports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenderDirect renders a dataset straight to bytes without persisting
// anything to storage — the synchronous counterpart to Generate used
// by the direct-download solver export endpoints.
func (s *ExportRenderService) RenderDirect(exportType models.ExportType, format models.ExportFormat, assignments, zones []byte, breakLabels map[string]string) ([]byte, error) {
	job := &models.ExportJob{
		Type: exportType,
		Params: models.ExportJobParams{
			Format:      format,
			Assignments: assignments,
			Zones:       zones,
			BreakLabels: breakLabels,
		},
	}
	dataset, title, err := s.buildDataset(job)
	if err != nil {
		return nil, err
	}
	switch format {
	case models.ExportFormatCSV:
		return s.csv.Render(dataset)
	case models.ExportFormatPDF:
		return s.pdf.Render(dataset, title)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

// ParseToken validates download token metadata.
func (s *ExportRenderService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportRenderService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportRenderService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportRenderService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportRenderService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s.%s", strings.ToLower(string(job.Type)), timestamp, job.Params.Format)
	return name
}

func (s *ExportRenderService) buildDataset(job *models.ExportJob) (export.Dataset, string, error) {
	var assignments []AssignmentDTO
	if err := json.Unmarshal(job.Params.Assignments, &assignments); err != nil {
		return export.Dataset{}, "", fmt.Errorf("invalid assignments payload: %w", err)
	}
	var zones []ZoneDTO
	if len(job.Params.Zones) > 0 {
		if err := json.Unmarshal(job.Params.Zones, &zones); err != nil {
			return export.Dataset{}, "", fmt.Errorf("invalid zones payload: %w", err)
		}
	}

	switch job.Type {
	case models.ExportTypeRosterByDay:
		return buildRosterByDayDataset(assignments, job.Params.BreakLabels)
	case models.ExportTypeRosterByZone:
		return buildRosterByZoneDataset(assignments, zones, job.Params.BreakLabels)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", job.Type)
	}
}

// buildRosterByDayDataset lays assignments out one row per (day,
// break), columns per zone — mirroring the day-grouped duty table the
// generated roster view shows.
func buildRosterByDayDataset(assignments []AssignmentDTO, breakLabels map[string]string) (export.Dataset, string, error) {
	type slotKey struct {
		day   string
		index int
	}
	zoneSet := map[string]struct{}{}
	slots := map[slotKey]map[string]string{}
	var order []slotKey

	for _, a := range assignments {
		key := slotKey{day: a.Day, index: a.BreakIndex}
		if _, ok := slots[key]; !ok {
			slots[key] = map[string]string{}
			order = append(order, key)
		}
		zoneSet[a.ZoneName] = struct{}{}
		existing := slots[key][a.ZoneName]
		if existing != "" {
			existing += ", "
		}
		slots[key][a.ZoneName] = existing + a.TeacherCode
	}

	zoneNames := make([]string, 0, len(zoneSet))
	for z := range zoneSet {
		zoneNames = append(zoneNames, z)
	}
	sort.Strings(zoneNames)

	sort.Slice(order, func(i, j int) bool {
		if order[i].day != order[j].day {
			return order[i].day < order[j].day
		}
		return order[i].index < order[j].index
	})

	headers := append([]string{"Day", "Break"}, zoneNames...)
	rows := make([]map[string]string, 0, len(order))
	for _, key := range order {
		row := map[string]string{
			"Day":   key.day,
			"Break": breakLabels[fmt.Sprintf("%d", key.index)],
		}
		for _, z := range zoneNames {
			row[z] = slots[key][z]
		}
		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}, "Duty Roster by Day", nil
}

// buildRosterByZoneDataset lays assignments out one row per zone,
// columns per day — the complementary zone-grouped coverage view.
func buildRosterByZoneDataset(assignments []AssignmentDTO, zones []ZoneDTO, breakLabels map[string]string) (export.Dataset, string, error) {
	daySet := map[string]struct{}{}
	cells := map[string]map[string]string{}

	zoneOrder := make([]string, 0, len(zones))
	zoneNames := map[string]string{}
	for _, z := range zones {
		zoneOrder = append(zoneOrder, z.ID)
		zoneNames[z.ID] = z.Name
	}

	for _, a := range assignments {
		daySet[a.Day] = struct{}{}
		if _, ok := cells[a.ZoneID]; !ok {
			cells[a.ZoneID] = map[string]string{}
		}
		if _, known := zoneNames[a.ZoneID]; !known {
			zoneNames[a.ZoneID] = a.ZoneName
			zoneOrder = append(zoneOrder, a.ZoneID)
		}
		label := fmt.Sprintf("%s (%s)", a.TeacherCode, breakLabels[fmt.Sprintf("%d", a.BreakIndex)])
		existing := cells[a.ZoneID][a.Day]
		if existing != "" {
			existing += "; "
		}
		cells[a.ZoneID][a.Day] = existing + label
	}

	days := make([]string, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Strings(days)

	headers := append([]string{"Zone"}, days...)
	rows := make([]map[string]string, 0, len(zoneOrder))
	for _, zoneID := range zoneOrder {
		row := map[string]string{"Zone": zoneNames[zoneID]}
		for _, d := range days {
			row[d] = cells[zoneID][d]
		}
		rows = append(rows, row)
	}

	return export.Dataset{Headers: headers, Rows: rows}, "Duty Roster by Zone", nil
}
