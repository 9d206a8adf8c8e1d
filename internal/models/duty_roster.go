package models

import "time"

// GeneratedRoster is the envelope persisted under the
// DutyConfigKeyLastGeneratedRoster config key after a successful solve.
// It wraps the solver's raw result with the bookkeeping the original
// schedule-generation endpoint recorded alongside it.
type GeneratedRoster struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Status      string      `json:"status"`
	Message     string      `json:"message,omitempty"`
	Solution    interface{} `json:"solution"`
	Stats       interface{} `json:"stats"`
}
