package solver

import (
	"math"
)

// weightSchedule derives FAIRNESS_WEIGHT and EDGE_PENALTY_WEIGHT from the
// fairness_priority slider P ∈ [0,100]. Computed exactly once per solve;
// unlike the source this is pulled out as a pure function so nothing can
// call it twice with drifting results.
func weightSchedule(p int) (fairnessWeight, edgePenaltyWeight int) {
	P := float64(p)
	var fw, epw float64
	if P <= 50 {
		fw = 5 + 0.9*P
		epw = 10
	} else {
		fw = 50 + 9*(P-50)
		epw = 10 + 0.8*(P-50)
	}
	return int(math.Floor(fw)), int(math.Floor(epw))
}

// resolvePinZone resolves a pin's target zone: ZoneID wins over
// ZoneName when both are present.
func resolvePinZone(cfg *Config, pin ManualPin) (*Zone, bool) {
	if pin.ZoneID != "" {
		return cfg.ZoneByID(pin.ZoneID)
	}
	if pin.ZoneName != "" {
		return cfg.ZoneByName(pin.ZoneName)
	}
	return nil, false
}

// BuildProgram translates config + verified teachers + a merged pin list
// into the boolean integer program the branch-and-bound backend solves.
// pins must already reflect the "DB pins override request pins" merge;
// BuildProgram only resolves and applies them.
func BuildProgram(cfg *Config, teachers []*TeacherProfile, pins []ManualPin) (*Program, []PinResolutionWarning, error) {
	if len(cfg.Zones) == 0 || len(cfg.Breaks) == 0 {
		return nil, nil, &InputError{Reason: "no zones or no breaks configured"}
	}

	verified := make([]*TeacherProfile, 0, len(teachers))
	for _, t := range teachers {
		if t.Verified {
			verified = append(verified, t)
		}
	}
	if len(verified) == 0 {
		return nil, nil, &InputError{Reason: "no verified teachers"}
	}

	cfg.index()
	fairnessWeight, edgePenaltyWeight := weightSchedule(cfg.Rules.FairnessPriority)

	pinsByKey := make(map[string]ManualPin, len(pins))
	for _, p := range pins {
		pinsByKey[pinKey(p.TeacherCode, p.Day, p.BreakIndex)] = p
	}

	var warnings []PinResolutionWarning
	resolvedPinVar := make(map[string]string) // pinKey -> zoneID, once resolved
	resolved := make(map[string]bool)         // pinKey already reported/consumed

	// A pin whose BreakIndex matches no configured break can never be
	// looked up by the per-(day, break) loop below, since that loop only
	// ever probes keys built from cfg.Breaks' actual AfterLesson values.
	// Catch it here, independent of that loop, so it still warns.
	for key, pin := range pinsByKey {
		if breakIndexExists(cfg, pin.BreakIndex) {
			continue
		}
		warnings = append(warnings, PinResolutionWarning{
			TeacherCode: pin.TeacherCode, Day: pin.Day, BreakIndex: pin.BreakIndex,
			Reason: "pin references an unknown break",
		})
		resolved[key] = true
	}

	p := &Program{
		teacherVars:   make(map[string][]int),
		teacherTarget: make(map[string]int),
		rules:         cfg.Rules,
	}

	coverageIdx := make(map[string]int) // "zoneID|breakID" -> index into p.coverage
	concurrentIdx := make(map[string]int)
	dailyIdx := make(map[string]int)
	longBreakIdx := make(map[string]int)
	edgeIdx := make(map[string]int)

	for _, t := range verified {
		p.teacherVars[t.Code] = nil

		for _, d := range Days {
			for _, b := range cfg.Breaks {
				pin, hasPin := pinsByKey[pinKey(t.Code, d, b.AfterLesson)]
				var pinnedZone *Zone
				if hasPin {
					if z, ok := resolvePinZone(cfg, pin); ok {
						pinnedZone = z
						resolvedPinVar[pinKey(t.Code, d, b.AfterLesson)] = z.ID
					} else if !resolved[pinKey(t.Code, d, b.AfterLesson)] {
						warnings = append(warnings, PinResolutionWarning{
							TeacherCode: t.Code, Day: d, BreakIndex: b.AfterLesson,
							Reason: "pin references an unknown zone",
						})
						resolved[pinKey(t.Code, d, b.AfterLesson)] = true
					}
				}

				available := IsAvailable(t, d, b) && !IsBlocked(t, d, b)

				for _, z := range cfg.Zones {
					pinnedHere := pinnedZone != nil && pinnedZone.ID == z.ID
					if !pinnedHere && !available {
						continue
					}

					loc := LocationScore(cfg, t, d, b, z)
					coef := loc
					if pinnedHere {
						coef += 2000 * 10
					}
					if IsSandwich(t, d, b) {
						coef += 20
					} else if IsEdge(t, d, b) {
						coef -= edgePenaltyWeight
					}

					idx := len(p.Variables)
					p.Variables = append(p.Variables, Variable{
						TeacherCode: t.Code,
						TeacherName: t.Name,
						Day:         d,
						Break:       b,
						Zone:        z,
						Coefficient: coef,
						Pinned:      pinnedHere,
					})

					p.teacherVars[t.Code] = append(p.teacherVars[t.Code], idx)

					p.varCoverageGroup = append(p.varCoverageGroup, -1)
					p.varConcurrentGroup = append(p.varConcurrentGroup, -1)
					p.varDailyCapGroup = append(p.varDailyCapGroup, -1)
					p.varLongBreakGroup = append(p.varLongBreakGroup, -1)
					p.varEdgeCapGroup = append(p.varEdgeCapGroup, -1)

					cKey := z.ID + "|" + b.ID
					ci, ok := coverageIdx[cKey]
					if !ok {
						ci = len(p.coverage)
						coverageIdx[cKey] = ci
						p.coverage = append(p.coverage, coverageGroup{required: cfg.Requirements.Get(z.ID, b.ID)})
					}
					p.coverage[ci].varIdx = append(p.coverage[ci].varIdx, idx)
					p.varCoverageGroup[idx] = ci

					ccKey := t.Code + "|" + string(d) + "|" + itoa(b.AfterLesson)
					cci, ok := concurrentIdx[ccKey]
					if !ok {
						cci = len(p.concurrent)
						concurrentIdx[ccKey] = cci
						p.concurrent = append(p.concurrent, nil)
					}
					p.concurrent[cci] = append(p.concurrent[cci], idx)
					p.varConcurrentGroup[idx] = cci

					dKey := t.Code + "|" + string(d)
					di, ok := dailyIdx[dKey]
					if !ok {
						di = len(p.dailyCap)
						dailyIdx[dKey] = di
						p.dailyCap = append(p.dailyCap, nil)
					}
					p.dailyCap[di] = append(p.dailyCap[di], idx)
					p.varDailyCapGroup[idx] = di

					if b.IsLong() {
						li, ok := longBreakIdx[t.Code]
						if !ok {
							li = len(p.longBreak)
							longBreakIdx[t.Code] = li
							p.longBreak = append(p.longBreak, nil)
						}
						p.longBreak[li] = append(p.longBreak[li], idx)
						p.varLongBreakGroup[idx] = li
					}

					if IsEdge(t, d, b) && !IsSandwich(t, d, b) {
						ei, ok := edgeIdx[t.Code]
						if !ok {
							ei = len(p.edgeCap)
							edgeIdx[t.Code] = ei
							p.edgeCap = append(p.edgeCap, nil)
						}
						p.edgeCap[ei] = append(p.edgeCap[ei], idx)
						p.varEdgeCapGroup[idx] = ei
					}
				}
			}
		}
	}

	// Finalize coverage force/equal flags (C1).
	for i := range p.coverage {
		g := &p.coverage[i]
		n := len(g.varIdx)
		switch {
		case g.required == 0:
			g.forceZero = true
		case n >= g.required:
			g.mustEqualR = true
		default:
			// n < required: sum <= n, nothing to force.
		}
	}

	// C6 fairness targets.
	totalTeachingHours := 0
	hoursByTeacher := make(map[string]int, len(verified))
	for _, t := range verified {
		h := teachingHours(t)
		hoursByTeacher[t.Code] = h
		totalTeachingHours += h
	}
	totalRequiredSlots := 0
	for _, byBreak := range cfg.Requirements {
		for _, r := range byBreak {
			totalRequiredSlots += r
		}
	}
	for _, t := range verified {
		if len(p.teacherVars[t.Code]) == 0 {
			continue // no eligible variable: C6 does not apply
		}
		share := 0.0
		if totalTeachingHours > 0 {
			share = float64(hoursByTeacher[t.Code]) / float64(totalTeachingHours)
		}
		target := int(math.Round(share * float64(totalRequiredSlots)))
		p.teacherTarget[t.Code] = target
	}

	// Warn about pins not reported above whose pinned variable was never
	// created (e.g. the teacher is unknown or unverified, or the day is
	// not one of Days).
	for key, pin := range pinsByKey {
		if resolved[key] {
			continue
		}
		found := false
		for _, v := range p.Variables {
			if v.Pinned && v.TeacherCode == pin.TeacherCode && v.Day == pin.Day && v.Break.AfterLesson == pin.BreakIndex {
				found = true
				break
			}
		}
		if !found {
			warnings = append(warnings, PinResolutionWarning{
				TeacherCode: pin.TeacherCode, Day: pin.Day, BreakIndex: pin.BreakIndex,
				Reason: "pin target variable was never created",
			})
		}
	}

	p.fairnessWeight = fairnessWeight

	return p, warnings, nil
}

// teachingHours approximates a teacher's workload by counting non-empty
// lesson slots across the week — the pro-rata basis for C6's fairness
// target.
func teachingHours(t *TeacherProfile) int {
	n := 0
	for _, s := range t.Schedule {
		if !s.IsEmpty() {
			n++
		}
	}
	return n
}

func pinKey(teacherCode string, d Day, breakIndex int) string {
	return teacherCode + "|" + string(d) + "|" + itoa(breakIndex)
}

// breakIndexExists reports whether any configured break has the given
// AfterLesson value.
func breakIndexExists(cfg *Config, afterLesson int) bool {
	for _, b := range cfg.Breaks {
		if b.AfterLesson == afterLesson {
			return true
		}
	}
	return false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
