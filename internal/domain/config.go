package domain

import "time"

// ConfigKeyCountdownStart stores the launch countdown start time.
const ConfigKeyCountdownStart = "countdownStart"

// ConfigEntry is a key/value setting.
// Corresponds to config table in PostgreSQL.
type ConfigEntry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
