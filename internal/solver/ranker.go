package solver

import "sort"

// CandidateStatus is the outcome tag for one teacher in a candidate
// search result.
type CandidateStatus string

const (
	CandidateOK      CandidateStatus = "OK"
	CandidateWarning CandidateStatus = "WARNING"
	CandidateBusy    CandidateStatus = "BUSY"
	CandidateError   CandidateStatus = "ERROR"
)

// Candidate is one teacher's ranked suitability for a single slot.
type Candidate struct {
	TeacherCode string
	TeacherName string
	Score       int
	Status      CandidateStatus
	Messages    []string
}

// SearchCandidates implements §4.5: for a requested (day, break,
// zone_name), rank every teacher without touching the CP model.
func SearchCandidates(cfg *Config, teachers []*TeacherProfile, day Day, breakAfterLesson int, zoneName string) []Candidate {
	zone, zoneOK := cfg.ZoneByName(zoneName)
	brk, breakOK := cfg.BreakByAfterLesson(breakAfterLesson)
	if !zoneOK || !breakOK {
		return []Candidate{{Status: CandidateError, Messages: []string{"unknown zone or break"}}}
	}

	candidates := make([]Candidate, 0, len(teachers))
	for _, t := range teachers {
		if !t.Verified {
			continue
		}
		c := Candidate{TeacherCode: t.Code, TeacherName: t.Name, Score: 50, Status: CandidateOK}

		if !IsAvailable(t, day, *brk) {
			c.Status = CandidateBusy
			c.Score = -100
			candidates = append(candidates, c)
			continue
		}
		if IsBlocked(t, day, *brk) {
			c.Status = CandidateWarning
			c.Score -= 50
		}
		c.Score += LocationScore(cfg, t, day, *brk, *zone) - 50
		if IsSandwich(t, day, *brk) {
			c.Score += 20
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].TeacherName < candidates[j].TeacherName
	})
	return candidates
}
