package solver

import "sort"

// AssignStatus is the severity tag attached to an assignment record.
// Severity only ever escalates: critical > warning > optimal.
type AssignStatus string

const (
	StatusAssignOptimal  AssignStatus = "optimal"
	StatusAssignWarning  AssignStatus = "warning"
	StatusAssignCritical AssignStatus = "critical"
)

func escalate(current AssignStatus, next AssignStatus) AssignStatus {
	rank := map[AssignStatus]int{StatusAssignOptimal: 0, StatusAssignWarning: 1, StatusAssignCritical: 2}
	if rank[next] > rank[current] {
		return next
	}
	return current
}

// Assignment is one teacher-to-zone duty in the output roster.
type Assignment struct {
	TeacherCode string
	Day         Day
	BreakID     string
	BreakName   string
	BreakIndex  int
	ZoneID      string
	ZoneName    string
	IsPinned    bool
	IsManual    bool
	AssignStatus AssignStatus
	AssignLogs   []string
}

// Stats summarizes one solve.
type Stats struct {
	TotalDuties int
	StatusStr   string
}

// Result is the outcome of solve(). Exactly one of Solution or Message
// is meaningful, selected by Status.
type Result struct {
	Status                 string // "success" | "failed" | "error"
	Message                string
	Solution               []Assignment
	Stats                  Stats
	TeacherTargets         map[string]int
	ActualDutiesCalculated map[string]int
	Warnings               []PinResolutionWarning
}

// SolveRoster runs the full pipeline: §6's solve(config, teachers,
// pinned_assignments). pinnedAssignments are request-supplied pins;
// each teacher's own ManualDuties are merged in, with a teacher's
// persisted pins overriding a request pin that targets the same
// (teacher, day, after_lesson) key — see DESIGN.md "Pin precedence".
func SolveRoster(cfg *Config, teachers []*TeacherProfile, pinnedAssignments []ManualPin, opts SolveOptions) Result {
	merged := mergePins(pinnedAssignments, teachers)

	prog, warnings, err := BuildProgram(cfg, teachers, merged)
	if err != nil {
		return Result{Status: "error", Message: err.Error(), Warnings: warnings}
	}

	pr := Solve(prog, opts)
	if pr.Status == StatusInfeasible {
		return Result{Status: "failed", Message: "No feasible schedule found for the given configuration and constraints.", Warnings: warnings}
	}

	assignments := make([]Assignment, 0, len(prog.Variables))
	actual := make(map[string]int)
	for i, v := range prog.Variables {
		if !pr.Assigned[i] {
			continue
		}
		t := findTeacher(teachers, v.TeacherCode)
		loc := LocationScore(cfg, t, v.Day, v.Break, v.Zone)

		status := StatusAssignOptimal
		var logs []string
		if loc <= 20 {
			status = escalate(status, StatusAssignCritical)
			logs = append(logs, "Far location")
		} else if loc < 80 {
			status = escalate(status, StatusAssignWarning)
			logs = append(logs, "Check location")
		}
		if !IsSandwich(t, v.Day, v.Break) {
			status = escalate(status, StatusAssignWarning)
			logs = append(logs, "Edge duty")
		}
		if v.Pinned {
			status = escalate(status, StatusAssignWarning)
			logs = append(logs, "Locked by User")
		}

		assignments = append(assignments, Assignment{
			TeacherCode:  v.TeacherCode,
			Day:          v.Day,
			BreakID:      v.Break.ID,
			BreakName:    v.Break.Name,
			BreakIndex:   v.Break.AfterLesson,
			ZoneID:       v.Zone.ID,
			ZoneName:     v.Zone.Name,
			IsPinned:     v.Pinned,
			IsManual:     v.Pinned,
			AssignStatus: status,
			AssignLogs:   logs,
		})
		actual[v.TeacherCode]++
	}

	sort.Slice(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Day != b.Day {
			return dayRank(a.Day) < dayRank(b.Day)
		}
		if a.BreakIndex != b.BreakIndex {
			return a.BreakIndex < b.BreakIndex
		}
		return a.ZoneID < b.ZoneID
	})

	statusStr := "OPTIMAL"
	if pr.Status == StatusFeasible {
		statusStr = "FEASIBLE"
	}

	return Result{
		Status:                 "success",
		Solution:               assignments,
		Stats:                  Stats{TotalDuties: len(assignments), StatusStr: statusStr},
		TeacherTargets:         prog.teacherTarget,
		ActualDutiesCalculated: actual,
		Warnings:               warnings,
	}
}

// mergePins combines request-supplied pins with every teacher's
// persisted ManualDuties, deduplicated by (teacher, day, after_lesson)
// with the persisted (profile) pin winning ties.
func mergePins(requestPins []ManualPin, teachers []*TeacherProfile) []ManualPin {
	byKey := make(map[string]ManualPin)
	order := make([]string, 0, len(requestPins))
	for _, p := range requestPins {
		k := pinKey(p.TeacherCode, p.Day, p.BreakIndex)
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = p
	}
	for _, t := range teachers {
		for _, p := range t.ManualDuties {
			p.TeacherCode = t.Code
			k := pinKey(p.TeacherCode, p.Day, p.BreakIndex)
			if _, seen := byKey[k]; !seen {
				order = append(order, k)
			}
			byKey[k] = p // profile pins always override request pins of the same key
		}
	}
	out := make([]ManualPin, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}

func findTeacher(teachers []*TeacherProfile, code string) *TeacherProfile {
	for _, t := range teachers {
		if t.Code == code {
			return t
		}
	}
	return nil
}

func dayRank(d Day) int {
	for i, dd := range Days {
		if dd == d {
			return i
		}
	}
	return len(Days)
}
