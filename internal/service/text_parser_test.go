package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextScheduleParserParsesDayColumns(t *testing.T) {
	parser := NewTextScheduleParser()
	text := "2\t8:00\tJK 1A-G1 Matematyka\tAB 1B-G2 Biologia\t\t\t"

	lessons := parser.Parse(text, "101", "")
	require.Len(t, lessons, 2)

	assert.Equal(t, "Mon", lessons[0].Day)
	assert.Equal(t, 2, lessons[0].LessonIndex)
	assert.Equal(t, "JK", lessons[0].TeacherCode)
	assert.Equal(t, "Matematyka", lessons[0].Subject)
	assert.Equal(t, "1A", lessons[0].ClassName)
	assert.Equal(t, "1A-G1", lessons[0].Group)
	assert.Equal(t, "101", lessons[0].Room)

	assert.Equal(t, "Tue", lessons[1].Day)
	assert.Equal(t, "AB", lessons[1].TeacherCode)
}

func TestTextScheduleParserWithoutTimeCell(t *testing.T) {
	parser := NewTextScheduleParser()
	text := "1\tJK 1A-G1 Matematyka"

	lessons := parser.Parse(text, "", "")
	require.Len(t, lessons, 1)
	assert.Equal(t, 1, lessons[0].LessonIndex)
	assert.Equal(t, "Mon", lessons[0].Day)
}

func TestTextScheduleParserSkipsEmptyCells(t *testing.T) {
	parser := NewTextScheduleParser()
	text := "3\t8:00\tJK 1A-G1 Matematyka\t\t\t\t"

	lessons := parser.Parse(text, "", "")
	require.Len(t, lessons, 1)
	assert.Equal(t, "Mon", lessons[0].Day)
}

func TestTextScheduleParserDefaultClassOverridesParsedClass(t *testing.T) {
	parser := NewTextScheduleParser()
	text := "1\tJK 1A-G1 Matematyka"

	lessons := parser.Parse(text, "", "FIXED")
	require.Len(t, lessons, 1)
	assert.Equal(t, "FIXED", lessons[0].ClassName)
}

func TestTextScheduleParserIgnoresRowsWithoutLeadingIndex(t *testing.T) {
	parser := NewTextScheduleParser()
	text := "no leading index here\tJK 1A-G1 Math"

	lessons := parser.Parse(text, "", "")
	assert.Empty(t, lessons)
}

func TestTextScheduleParserSubjectDefaultsWhenMissing(t *testing.T) {
	parser := NewTextScheduleParser()
	text := "1\tJK 1A-G1"

	lessons := parser.Parse(text, "", "")
	require.Len(t, lessons, 1)
	assert.Equal(t, "Lekcja", lessons[0].Subject)
}

func TestGroupByTeacherBucketsByCode(t *testing.T) {
	lessons := []ParsedLesson{
		{TeacherCode: "JK", Day: "Mon"},
		{TeacherCode: "AB", Day: "Tue"},
		{TeacherCode: "JK", Day: "Wed"},
	}
	grouped := GroupByTeacher(lessons)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["JK"], 2)
	assert.Len(t, grouped["AB"], 1)
}
