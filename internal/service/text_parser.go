package service

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedLesson is one cell recovered from a pasted weekly grid: a
// teacher's lesson on a given day and period, before it has been
// grouped per teacher and saved as a TeacherSchedule.
type ParsedLesson struct {
	Day         string `json:"day"`
	LessonIndex int    `json:"lesson_index"`
	TeacherCode string `json:"teacher_code"`
	Subject     string `json:"subject"`
	Group       string `json:"group,omitempty"`
	ClassName   string `json:"class_name,omitempty"`
	Room        string `json:"room,omitempty"`
}

var (
	rowStartRe  = regexp.MustCompile(`^\s*\d+(\s|$)`)
	leadingIdx  = regexp.MustCompile(`^(\d+)`)
	timeCellRe  = regexp.MustCompile(`\d{1,2}:\d{2}`)
	teacherCode = regexp.MustCompile(`(?i)^[A-ZŁŚŻŹĆŃ]{2,4}$`)

	weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
)

// TextScheduleParser recovers a weekly lesson grid from plain text
// pasted out of a spreadsheet or PDF viewer: rows are lesson periods,
// columns are weekdays, cells hold "TEACHERCODE CLASS-GROUP SUBJECT".
type TextScheduleParser struct{}

// NewTextScheduleParser constructs a parser.
func NewTextScheduleParser() *TextScheduleParser {
	return &TextScheduleParser{}
}

// Parse recovers every lesson cell found in text. Cells carry no room,
// so every lesson's room is defaultRoom; a non-empty defaultClass
// replaces the class parsed from each cell.
func (p *TextScheduleParser) Parse(text string, defaultRoom, defaultClass string) []ParsedLesson {
	rows := p.logicalRows(text)

	var lessons []ParsedLesson
	for _, row := range rows {
		parts := strings.Split(row, "\t")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 {
			continue
		}

		match := leadingIdx.FindStringSubmatch(parts[0])
		if match == nil {
			continue
		}
		lessonIdx, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		startIdx := 1
		if timeCellRe.MatchString(parts[1]) {
			startIdx = 2
		}
		if startIdx >= len(parts) {
			continue
		}

		for i, cell := range parts[startIdx:] {
			if i > 4 {
				break
			}
			parsed, ok := parseCell(cell)
			if !ok {
				continue
			}
			className := defaultClass
			if className == "" {
				className = parsed.class
			}
			lessons = append(lessons, ParsedLesson{
				Day:         weekdays[i],
				LessonIndex: lessonIdx,
				TeacherCode: parsed.teacher,
				Subject:     parsed.subject,
				Group:       parsed.group,
				ClassName:   className,
				Room:        defaultRoom,
			})
		}
	}
	return lessons
}

// GroupByTeacher buckets parsed lessons by teacher code, the shape a
// schedule save expects.
func GroupByTeacher(lessons []ParsedLesson) map[string][]ParsedLesson {
	byTeacher := make(map[string][]ParsedLesson)
	for _, l := range lessons {
		byTeacher[l.TeacherCode] = append(byTeacher[l.TeacherCode], l)
	}
	return byTeacher
}

// logicalRows merges wrapped continuation lines into one tab-joined
// row per lesson period: a new row starts whenever a line begins with
// a lesson index.
func (p *TextScheduleParser) logicalRows(text string) []string {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var rows []string
	var buffer []string
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == "" {
			continue
		}
		if rowStartRe.MatchString(trimmed) {
			if len(buffer) > 0 {
				rows = append(rows, strings.Join(buffer, "\t"))
			}
			buffer = []string{trimmed}
		} else if len(buffer) > 0 {
			buffer = append(buffer, trimmed)
		}
	}
	if len(buffer) > 0 {
		rows = append(rows, strings.Join(buffer, "\t"))
	}
	return rows
}

type parsedCell struct {
	teacher string
	class   string
	group   string
	subject string
}

// parseCell splits "TEACHERCODE CLASS-GROUP SUBJECT" into its parts.
// A malformed teacher code is still accepted — the original paste
// format isn't strictly enforced upstream, so rejecting it here would
// silently drop real data.
func parseCell(text string) (parsedCell, bool) {
	parts := strings.SplitN(text, " ", 3)
	if len(parts) < 2 {
		return parsedCell{}, false
	}

	teacher := parts[0]
	_ = teacherCode.MatchString(teacher) // validated loosely, never rejected

	classPart := parts[1]
	subject := "Lekcja"
	if len(parts) > 2 {
		subject = parts[2]
	}
	class := strings.SplitN(classPart, "-", 2)[0]

	return parsedCell{teacher: teacher, class: class, group: classPart, subject: subject}, true
}
