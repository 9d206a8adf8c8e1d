package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePinsProfilePinsOverrideRequestPins(t *testing.T) {
	requestPins := []ManualPin{{TeacherCode: "T1", Day: Mon, BreakIndex: 2, ZoneID: "request-zone"}}
	teachers := []*TeacherProfile{
		{Code: "T1", ManualDuties: []ManualPin{{Day: Mon, BreakIndex: 2, ZoneID: "profile-zone"}}},
	}

	merged := mergePins(requestPins, teachers)
	require.Len(t, merged, 1)
	assert.Equal(t, "profile-zone", merged[0].ZoneID)
}

func TestMergePinsKeepsDistinctKeysSeparate(t *testing.T) {
	requestPins := []ManualPin{{TeacherCode: "T1", Day: Mon, BreakIndex: 2, ZoneID: "z1"}}
	teachers := []*TeacherProfile{
		{Code: "T2", ManualDuties: []ManualPin{{Day: Tue, BreakIndex: 4, ZoneID: "z2"}}},
	}

	merged := mergePins(requestPins, teachers)
	assert.Len(t, merged, 2)
}

func TestSolveRosterReturnsErrorResultOnBadInput(t *testing.T) {
	result := SolveRoster(&Config{}, nil, nil, SolveOptions{})
	assert.Equal(t, "error", result.Status)
}

func TestSolveRosterReturnsFailedResultWhenInfeasible(t *testing.T) {
	// One teacher cannot simultaneously cover two zones in the same
	// concurrent break: each zone requires exactly 1, but the C2
	// concurrency cap limits this teacher to 1 assignment total.
	cfg := &Config{
		Zones:  []Zone{{ID: "z1", Name: "Zone A"}, {ID: "z2", Name: "Zone B"}},
		Breaks: []Break{{ID: "b1", Name: "Break", AfterLesson: 2}},
		Requirements: Requirements{
			"z1": map[string]int{"b1": 1},
			"z2": map[string]int{"b1": 1},
		},
		Rules: DefaultRules(),
	}
	t1 := sandwichTeacher("T1")

	result := SolveRoster(cfg, []*TeacherProfile{t1}, nil, SolveOptions{})
	assert.Equal(t, "failed", result.Status)
}

func TestSolveRosterSuccessProducesSortedAssignments(t *testing.T) {
	cfg := &Config{
		Zones:  []Zone{{ID: "z1", Name: "Zone A"}, {ID: "z2", Name: "Zone B"}},
		Breaks: []Break{{ID: "b1", Name: "Break 1", AfterLesson: 2}, {ID: "b2", Name: "Break 2", AfterLesson: 4}},
		Requirements: Requirements{
			"z1": map[string]int{"b1": 1},
			"z2": map[string]int{"b2": 1},
		},
		Rules: DefaultRules(),
	}
	t1 := teacherWithSlots("T1",
		LessonSlot{Day: Mon, LessonIndex: 2, Subject: "Math"},
		LessonSlot{Day: Mon, LessonIndex: 3, Subject: "Math"},
		LessonSlot{Day: Mon, LessonIndex: 4, Subject: "Math"},
		LessonSlot{Day: Mon, LessonIndex: 5, Subject: "Math"},
	)

	result := SolveRoster(cfg, []*TeacherProfile{t1}, nil, SolveOptions{})
	require.Equal(t, "success", result.Status)
	require.Len(t, result.Solution, 2)

	assert.Equal(t, "b1", result.Solution[0].BreakID)
	assert.Equal(t, "b2", result.Solution[1].BreakID)
	assert.Equal(t, 2, result.Stats.TotalDuties)
	assert.Equal(t, 2, result.ActualDutiesCalculated["T1"])
}

func TestSolveRosterPinnedAssignmentCarriesWarningLog(t *testing.T) {
	cfg := baseConfig()
	t1 := sandwichTeacher("T1")
	pins := []ManualPin{{TeacherCode: "T1", Day: Mon, BreakIndex: 2, ZoneID: "z1"}}

	result := SolveRoster(cfg, []*TeacherProfile{t1}, pins, SolveOptions{})
	require.Equal(t, "success", result.Status)
	require.Len(t, result.Solution, 1)
	assert.True(t, result.Solution[0].IsPinned)
	assert.Contains(t, result.Solution[0].AssignLogs, "Locked by User")
}
