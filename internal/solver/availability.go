package solver

// Availability is a pure predicate over a teacher's weekly lesson grid.
// It answers "is T present at school around break B on day D?" and
// "is B inside a double-lesson block for T?" with no dependency on the
// model or the backend.

// IsAvailable reports whether teacher t has a lesson with LessonIndex
// equal to b.AfterLesson or b.AfterLesson+1 on day d — present just
// before the break, or just after.
func IsAvailable(t *TeacherProfile, d Day, b Break) bool {
	_, before := t.lessonAt(d, b.AfterLesson)
	_, after := t.lessonAt(d, b.AfterLesson+1)
	return before || after
}

// IsBlocked reports whether t is absorbed into a continuous double
// lesson across break b on day d: both the before and after lessons
// exist, carry a non-empty GroupCode, and those codes match.
func IsBlocked(t *TeacherProfile, d Day, b Break) bool {
	before, hasBefore := t.lessonAt(d, b.AfterLesson)
	after, hasAfter := t.lessonAt(d, b.AfterLesson+1)
	if !hasBefore || !hasAfter {
		return false
	}
	if before.GroupCode == "" || after.GroupCode == "" {
		return false
	}
	return before.GroupCode == after.GroupCode
}

// IsEdge reports whether exactly one of "lesson before" and "lesson
// after" exists for t at break b on day d — presence spans only one
// side (arrives early or stays late).
func IsEdge(t *TeacherProfile, d Day, b Break) bool {
	_, before := t.lessonAt(d, b.AfterLesson)
	_, after := t.lessonAt(d, b.AfterLesson+1)
	return before != after
}

// IsSandwich reports whether both the lesson before and the lesson
// after break b exist for t on day d.
func IsSandwich(t *TeacherProfile, d Day, b Break) bool {
	_, before := t.lessonAt(d, b.AfterLesson)
	_, after := t.lessonAt(d, b.AfterLesson+1)
	return before && after
}

// currentRooms collects the rooms t occupies in the lessons immediately
// around break b on day d, used by the location scorer.
func currentRooms(t *TeacherProfile, d Day, b Break) []string {
	var rooms []string
	if before, ok := t.lessonAt(d, b.AfterLesson); ok && before.RoomCode != "" {
		rooms = append(rooms, before.RoomCode)
	}
	if after, ok := t.lessonAt(d, b.AfterLesson+1); ok && after.RoomCode != "" {
		rooms = append(rooms, after.RoomCode)
	}
	return rooms
}
