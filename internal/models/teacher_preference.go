package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// DutyPreference stores a teacher's soft duty-zone preferences,
// persisted as a JSON array of zone IDs — spec.md's
// `preferences.preferred_zones`.
type DutyPreference struct {
	ID             string         `db:"id" json:"id"`
	TeacherCode    string         `db:"teacher_code" json:"teacher_code"`
	PreferredZones types.JSONText `db:"preferred_zones" json:"preferred_zones"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
