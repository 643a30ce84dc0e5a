package model

import "sync"

// Catalog holds the ordered preset list shared between the UI and the timer
// core. The list is replaced wholesale when preferences are saved.
type Catalog struct {
	mu      sync.RWMutex
	presets []Preset
}

// NewCatalog creates a catalog seeded with the given presets.
func NewCatalog(presets []Preset) *Catalog {
	catalog := &Catalog{}
	catalog.Replace(presets)
	return catalog
}

// Presets returns a copy of the ordered preset list.
func (catalog *Catalog) Presets() []Preset {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return append([]Preset(nil), catalog.presets...)
}

// Replace swaps the preset list wholesale.
func (catalog *Catalog) Replace(presets []Preset) {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	catalog.presets = append([]Preset(nil), presets...)
}

// FindByID looks up a preset by its stable identifier.
func (catalog *Catalog) FindByID(id string) (Preset, bool) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	for _, preset := range catalog.presets {
		if preset.ID == id {
			return preset, true
		}
	}
	return Preset{}, false
}
