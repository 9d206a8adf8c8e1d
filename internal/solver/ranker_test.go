package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCandidatesUnknownZoneOrBreakReturnsError(t *testing.T) {
	cfg := baseConfig()
	cands := SearchCandidates(cfg, nil, Mon, 2, "does not exist")
	require.Len(t, cands, 1)
	assert.Equal(t, CandidateError, cands[0].Status)
}

func TestSearchCandidatesMarksUnavailableTeachersBusy(t *testing.T) {
	cfg := baseConfig()
	busy := teacherWithSlots("T1", LessonSlot{Day: Mon, LessonIndex: 6, Subject: "Art"})

	cands := SearchCandidates(cfg, []*TeacherProfile{busy}, Mon, 2, "Gimnazjum")
	require.Len(t, cands, 1)
	assert.Equal(t, CandidateBusy, cands[0].Status)
}

func TestSearchCandidatesSkipsUnverifiedTeachers(t *testing.T) {
	cfg := baseConfig()
	unverified := sandwichTeacher("T1")
	unverified.Verified = false

	cands := SearchCandidates(cfg, []*TeacherProfile{unverified}, Mon, 2, "Gimnazjum")
	assert.Empty(t, cands)
}

func TestSearchCandidatesRankedHighestScoreFirst(t *testing.T) {
	cfg := baseConfig()
	available := sandwichTeacher("Available")
	busy := teacherWithSlots("Busy", LessonSlot{Day: Mon, LessonIndex: 6, Subject: "Art"})

	cands := SearchCandidates(cfg, []*TeacherProfile{busy, available}, Mon, 2, "Gimnazjum")
	require.Len(t, cands, 2)
	assert.Equal(t, "Available", cands[0].TeacherCode)
	assert.Equal(t, CandidateOK, cands[0].Status)
	assert.Equal(t, "Busy", cands[1].TeacherCode)
}
