package brewtimer

import (
	"time"

	"cuppa/internal/core/model"
)

// State represents the current engine mode.
type State string

const (
	StateIdle    State = "idle"
	StateBrewing State = "brewing"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
)

// Event represents an engine update for observers.
type Event struct {
	Type      EventType
	State     State
	Preset    model.Preset
	Remaining int
	At        time.Time
}
