package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TeacherSchedule is a teacher's weekly lesson grid plus any manual
// duty pins recorded against it. Schedule and ManualDuties are stored
// as JSON blobs — the grid shape is whatever the solver's LessonSlot
// and ManualPin types marshal to — so the roster format can evolve
// without a migration.
type TeacherSchedule struct {
	ID           string         `db:"id" json:"id"`
	TeacherCode  string         `db:"teacher_code" json:"teacher_code"`
	TeacherName  string         `db:"teacher_name" json:"teacher_name"`
	IsVerified   bool           `db:"is_verified" json:"is_verified"`
	Schedule     types.JSONText `db:"schedule_json" json:"schedule"`
	ManualDuties types.JSONText `db:"manual_duties_json" json:"manual_duties"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherScheduleSummary is the list-view projection: the grid and pins
// are omitted, a slot count is reported instead.
type TeacherScheduleSummary struct {
	TeacherCode string `db:"teacher_code" json:"teacher_code"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	IsVerified  bool   `db:"is_verified" json:"is_verified"`
	SlotsCount  int    `db:"slots_count" json:"slots_count"`
}
