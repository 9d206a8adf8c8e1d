package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/sma-duty-roster/api/internal/models"
	"github.com/sma-duty-roster/api/internal/solver"
	appErrors "github.com/sma-duty-roster/api/pkg/errors"
)

// GenerateRosterRequest is the payload accepted by the roster
// generation endpoint. PinnedAssignments are request-scoped pins; a
// teacher's own persisted manual duties always take precedence over a
// request pin targeting the same (teacher, day, break) slot.
type GenerateRosterRequest struct {
	PinnedAssignments []PinRequest `json:"pinned_assignments"`
}

// PinRequest is one request-scoped manual pin.
type PinRequest struct {
	TeacherCode string `json:"teacher_code"`
	Day         string `json:"day"`
	BreakIndex  int    `json:"break_index"`
	ZoneID      string `json:"zone_id"`
	ZoneName    string `json:"zone_name"`
}

// CandidateSearchRequest is the payload for the candidate ranking
// endpoint.
type CandidateSearchRequest struct {
	Day        string `json:"day" validate:"required"`
	BreakIndex int    `json:"break_index"`
	ZoneName   string `json:"zone_name" validate:"required"`
}

// DutySolverService wires the solver core to the stored duty config
// and teacher schedules: it is the only place request-scoped pins, DB
// manual duties and preferences are assembled into a solver.Config and
// a []*solver.TeacherProfile.
type DutySolverService struct {
	schedules               teacherScheduleRepository
	configs                 dutyConfigRepository
	preferences             teacherPreferenceRepo
	maxNodes                int
	fairnessPriorityDefault int
	logger                  *zap.Logger
	metrics                 *MetricsService
}

// NewDutySolverService constructs the service. metrics may be nil; every
// MetricsService method tolerates a nil receiver. fairnessPriorityDefault
// seeds Rules.FairnessPriority (DUTY_FAIRNESS_PRIORITY_DEFAULT) before the
// stored rules config, if any, is overlaid on top of it.
func NewDutySolverService(schedules teacherScheduleRepository, configs dutyConfigRepository, preferences teacherPreferenceRepo, maxNodes int, fairnessPriorityDefault int, logger *zap.Logger, metrics *MetricsService) *DutySolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DutySolverService{
		schedules:               schedules,
		configs:                 configs,
		preferences:             preferences,
		maxNodes:                maxNodes,
		fairnessPriorityDefault: fairnessPriorityDefault,
		logger:                  logger,
		metrics:                 metrics,
	}
}

// Generate runs a full solve and, on success, persists the result
// under the well-known last_generated_schedule config key.
func (s *DutySolverService) Generate(ctx context.Context, req GenerateRosterRequest) (*solver.Result, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	teachers, err := s.loadTeacherProfiles(ctx)
	if err != nil {
		return nil, err
	}

	pins := make([]solver.ManualPin, 0, len(req.PinnedAssignments))
	for _, p := range req.PinnedAssignments {
		pins = append(pins, solver.ManualPin{
			TeacherCode: p.TeacherCode,
			Day:         solver.Day(p.Day),
			BreakIndex:  p.BreakIndex,
			ZoneID:      p.ZoneID,
			ZoneName:    p.ZoneName,
		})
	}

	start := time.Now()
	result := solver.SolveRoster(cfg, teachers, pins, solver.SolveOptions{MaxNodes: s.maxNodes})
	s.metrics.ObserveSolve(result.Status, time.Since(start))

	switch result.Status {
	case "error":
		return nil, appErrors.Clone(appErrors.ErrSolverInput, result.Message)
	case "failed":
		return nil, appErrors.Clone(appErrors.ErrInfeasible, result.Message)
	}

	if err := s.persistResult(ctx, result); err != nil {
		s.logger.Warn("failed to persist generated roster", zap.Error(err))
	}

	return &result, nil
}

// SearchCandidates ranks every verified teacher for one (day, break,
// zone) slot without invoking the solve pipeline.
func (s *DutySolverService) SearchCandidates(ctx context.Context, req CandidateSearchRequest) ([]solver.Candidate, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	teachers, err := s.loadTeacherProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(teachers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrSolverInput, "no teachers available")
	}

	candidates := solver.SearchCandidates(cfg, teachers, solver.Day(req.Day), req.BreakIndex, req.ZoneName)
	return candidates, nil
}

// LastGenerated returns the most recently persisted roster, if any.
func (s *DutySolverService) LastGenerated(ctx context.Context) (*models.GeneratedRoster, error) {
	cfg, err := s.configs.Get(ctx, models.DutyConfigKeyLastGeneratedRoster)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no roster has been generated yet")
		}
		return nil, err
	}
	var roster models.GeneratedRoster
	if err := json.Unmarshal(cfg.Value, &roster); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode stored roster")
	}
	return &roster, nil
}

func (s *DutySolverService) persistResult(ctx context.Context, result solver.Result) error {
	roster := models.GeneratedRoster{
		GeneratedAt: time.Now().UTC(),
		Status:      result.Status,
		Message:     result.Message,
		Solution:    result.Solution,
		Stats:       result.Stats,
	}
	payload, err := json.Marshal(roster)
	if err != nil {
		return err
	}

	existing, err := s.configs.Get(ctx, models.DutyConfigKeyLastGeneratedRoster)
	cfg := &models.DutyConfig{Key: models.DutyConfigKeyLastGeneratedRoster, Value: types.JSONText(payload)}
	if err == nil && existing != nil {
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
	}
	return s.configs.Upsert(ctx, cfg)
}

func (s *DutySolverService) loadConfig(ctx context.Context) (*solver.Config, error) {
	keys := []string{
		models.DutyConfigKeyZones,
		models.DutyConfigKeyBreaks,
		models.DutyConfigKeyRequirements,
		models.DutyConfigKeyTopology,
		models.DutyConfigKeyProximity,
		models.DutyConfigKeyRules,
	}
	rows, err := s.configs.ListByKeys(ctx, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load duty config")
	}
	byKey := make(map[string]types.JSONText, len(rows))
	for _, r := range rows {
		byKey[r.Key] = r.Value
	}

	rules := solver.DefaultRules()
	if s.fairnessPriorityDefault != 0 {
		rules.FairnessPriority = s.fairnessPriorityDefault
	}
	cfg := &solver.Config{Rules: rules}

	if raw, ok := byKey[models.DutyConfigKeyZones]; ok {
		var zones []solver.Zone
		if err := json.Unmarshal(raw, &zones); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolverInput.Code, appErrors.ErrSolverInput.Status, "invalid stored zones")
		}
		cfg.Zones = zones
	}
	if raw, ok := byKey[models.DutyConfigKeyBreaks]; ok {
		var breaks []solver.Break
		if err := json.Unmarshal(raw, &breaks); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolverInput.Code, appErrors.ErrSolverInput.Status, "invalid stored breaks")
		}
		cfg.Breaks = breaks
	}
	if raw, ok := byKey[models.DutyConfigKeyRequirements]; ok {
		var reqs solver.Requirements
		if err := json.Unmarshal(raw, &reqs); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolverInput.Code, appErrors.ErrSolverInput.Status, "invalid stored requirements")
		}
		cfg.Requirements = reqs
	}
	if raw, ok := byKey[models.DutyConfigKeyTopology]; ok {
		var topo solver.Topology
		if err := json.Unmarshal(raw, &topo); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolverInput.Code, appErrors.ErrSolverInput.Status, "invalid stored topology")
		}
		cfg.Topology = topo
	}
	if raw, ok := byKey[models.DutyConfigKeyProximity]; ok {
		var prox solver.Proximity
		if err := json.Unmarshal(raw, &prox); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolverInput.Code, appErrors.ErrSolverInput.Status, "invalid stored proximity")
		}
		cfg.Proximity = prox
	}
	if raw, ok := byKey[models.DutyConfigKeyRules]; ok {
		rules := cfg.Rules
		if err := json.Unmarshal(raw, &rules); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolverInput.Code, appErrors.ErrSolverInput.Status, "invalid stored rules")
		}
		cfg.Rules = rules
	}

	return cfg, nil
}

func (s *DutySolverService) loadTeacherProfiles(ctx context.Context) ([]*solver.TeacherProfile, error) {
	rows, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher schedules")
	}

	profiles := make([]*solver.TeacherProfile, 0, len(rows))
	for i := range rows {
		row := rows[i]

		var slots []ScheduleSlot
		if err := json.Unmarshal(row.Schedule, &slots); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolverInput.Code, appErrors.ErrSolverInput.Status, "invalid stored schedule for "+row.TeacherCode)
		}
		var duties []ManualDutySlot
		if err := json.Unmarshal(row.ManualDuties, &duties); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSolverInput.Code, appErrors.ErrSolverInput.Status, "invalid stored manual duties for "+row.TeacherCode)
		}

		lessons := make([]solver.LessonSlot, 0, len(slots))
		for _, sl := range slots {
			if sl.IsEmpty {
				continue
			}
			lessons = append(lessons, solver.LessonSlot{
				Day:         solver.Day(sl.Day),
				LessonIndex: sl.LessonIndex,
				GroupCode:   sl.GroupCode,
				RoomCode:    sl.RoomCode,
				Subject:     sl.Subject,
			})
		}

		pins := make([]solver.ManualPin, 0, len(duties))
		for _, d := range duties {
			pins = append(pins, solver.ManualPin{
				TeacherCode: row.TeacherCode,
				Day:         solver.Day(d.Day),
				BreakIndex:  d.BreakIndex,
				ZoneID:      d.ZoneID,
				ZoneName:    d.ZoneName,
			})
		}

		prefs := solver.Preferences{PreferredZones: map[string]struct{}{}}
		if s.preferences != nil {
			pref, err := s.preferences.GetByTeacher(ctx, row.TeacherCode)
			if err == nil && pref != nil {
				var zones []string
				if err := json.Unmarshal(pref.PreferredZones, &zones); err == nil {
					for _, z := range zones {
						prefs.PreferredZones[z] = struct{}{}
					}
				}
			}
		}

		profiles = append(profiles, &solver.TeacherProfile{
			Code:         row.TeacherCode,
			Name:         row.TeacherName,
			Verified:     row.IsVerified,
			Schedule:     lessons,
			Preferences:  prefs,
			ManualDuties: pins,
		})
	}
	return profiles, nil
}
