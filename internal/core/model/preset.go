package model

import "strings"

// Preset describes one brewing profile. Presets are value types: a running
// session holds its own copy, so replacing the configured list never mutates
// a countdown that is already underway.
type Preset struct {
	ID          string
	Name        string
	BrewSeconds int
	TempDisplay string
	Color       string
}

// NewPreset builds a preset with an identifier derived from its name.
func NewPreset(name string, brewSeconds int, tempDisplay, color string) Preset {
	return Preset{
		ID:          PresetID(name),
		Name:        name,
		BrewSeconds: brewSeconds,
		TempDisplay: tempDisplay,
		Color:       color,
	}
}

// PresetID derives a stable identifier from a display name.
func PresetID(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(id, " ", "-")
}

// DefaultPresets returns the built-in brewing profiles.
func DefaultPresets() []Preset {
	return []Preset{
		NewPreset("Black Tea", 240, "100°C", "black"),
		NewPreset("Green Tea", 150, "80°C", "green"),
		NewPreset("Herbal Tea", 300, "100°C", "orange"),
	}
}
