package tray

import (
	"fmt"

	"cuppa/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartPreset func(presetID string)
	OnCancel      func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	callbacks   Callbacks
	presets     []model.Preset
	statusLabel string
	brewing     bool
}

// New creates a tray manager with one entry per brewing preset.
func New(app desktop.App, presets []model.Preset, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		presets:     append([]model.Preset(nil), presets...),
		statusLabel: "idle",
	}
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshMenu()
}

// SetBrewing toggles the stop item.
func (manager *Manager) SetBrewing(brewing bool) {
	manager.brewing = brewing
	manager.refreshMenu()
}

// SetPresets replaces the preset entries after a preferences save.
func (manager *Manager) SetPresets(presets []model.Preset) {
	manager.presets = append([]model.Preset(nil), presets...)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}

	statusItem := fyne.NewMenuItem(fmt.Sprintf("Status: %s", manager.statusLabel), nil)
	statusItem.Disabled = true
	items := []*fyne.MenuItem{statusItem}

	for _, preset := range manager.presets {
		preset := preset
		label := fmt.Sprintf("Brew %s (%s)", preset.Name, preset.TempDisplay)
		items = append(items, fyne.NewMenuItem(label, func() {
			if manager.callbacks.OnStartPreset != nil {
				manager.callbacks.OnStartPreset(preset.ID)
			}
		}))
	}

	stopItem := fyne.NewMenuItem("Stop brewing", func() {
		if manager.callbacks.OnCancel != nil {
			manager.callbacks.OnCancel()
		}
	})
	stopItem.Disabled = !manager.brewing
	items = append(items, stopItem)

	items = append(items, fyne.NewMenuItem("Preferences", func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	}))

	items = append(items, fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	}))

	manager.app.SetSystemTrayMenu(fyne.NewMenu("Cuppa", items...))
}
