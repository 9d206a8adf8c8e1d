package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// DutyConfig is a generic key/value settings blob: zones, breaks,
// topology, proximity and rules are all stored this way rather than as
// dedicated tables, so the solver's input shape can change without a
// migration. Well-known keys are listed below.
type DutyConfig struct {
	ID        string         `db:"id" json:"id"`
	Key       string         `db:"key" json:"key"`
	Value     types.JSONText `db:"value_json" json:"value"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// Well-known duty_config keys.
const (
	DutyConfigKeyZones               = "zones"
	DutyConfigKeyBreaks              = "breaks"
	DutyConfigKeyRequirements        = "requirements"
	DutyConfigKeyTopology            = "topology"
	DutyConfigKeyProximity           = "proximity"
	DutyConfigKeyRules               = "rules"
	DutyConfigKeyLastGeneratedRoster = "last_generated_schedule"
)
