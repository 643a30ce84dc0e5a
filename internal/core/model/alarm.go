package model

import "time"

// PersistedAlarm is the durable snapshot of an active brewing session: which
// preset is counting down and the wall-clock instant it finishes. It is the
// only state that outlives the process.
type PersistedAlarm struct {
	PresetID string
	EndTime  time.Time
}
