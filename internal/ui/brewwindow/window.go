package brewwindow

import (
	"fmt"

	"cuppa/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines brew window action handlers.
type Callbacks struct {
	OnStartPreset func(presetID string)
	OnCancel      func()
}

// Window is the main countdown window. It also serves as the confirmation
// prompter: the discard dialog is anchored to it.
type Window struct {
	window     fyne.Window
	teaLabel   *widget.Label
	countdown  *widget.Label
	presetBox  *fyne.Container
	stopButton *widget.Button
	callbacks  Callbacks
}

// New creates the main window with one button per preset.
func New(app fyne.App, presets []model.Preset, callbacks Callbacks) *Window {
	window := app.NewWindow("Cuppa")

	teaLabel := widget.NewLabelWithStyle("Pick a tea", fyne.TextAlignCenter, fyne.TextStyle{})
	countdown := widget.NewLabelWithStyle("00:00", fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true})
	presetBox := container.NewVBox()

	stopButton := widget.NewButton("Stop brewing", func() {
		if callbacks.OnCancel != nil {
			callbacks.OnCancel()
		}
	})
	stopButton.Disable()

	win := &Window{
		window:     window,
		teaLabel:   teaLabel,
		countdown:  countdown,
		presetBox:  presetBox,
		stopButton: stopButton,
		callbacks:  callbacks,
	}
	win.SetPresets(presets)

	window.SetContent(container.NewVBox(teaLabel, countdown, presetBox, stopButton))
	window.Resize(fyne.NewSize(320, 400))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return win
}

// Show displays the window.
func (win *Window) Show() {
	win.window.Show()
	win.window.RequestFocus()
}

// SetPresets rebuilds the preset buttons.
func (win *Window) SetPresets(presets []model.Preset) {
	win.presetBox.Objects = nil
	for _, preset := range presets {
		preset := preset
		label := fmt.Sprintf("%s (%s)", preset.Name, preset.TempDisplay)
		win.presetBox.Add(widget.NewButton(label, func() {
			if win.callbacks.OnStartPreset != nil {
				win.callbacks.OnStartPreset(preset.ID)
			}
		}))
	}
	win.presetBox.Refresh()
}

// ShowBrewing switches the window into countdown mode.
func (win *Window) ShowBrewing(preset model.Preset, remaining int) {
	win.teaLabel.SetText(fmt.Sprintf("Brewing %s", preset.Name))
	win.SetRemaining(remaining)
	win.stopButton.Enable()
}

// SetRemaining updates the countdown display.
func (win *Window) SetRemaining(remaining int) {
	win.countdown.SetText(formatRemaining(remaining))
}

// ShowIdle returns the window to the pick-a-tea state.
func (win *Window) ShowIdle() {
	win.teaLabel.SetText("Pick a tea")
	win.countdown.SetText("00:00")
	win.stopButton.Disable()
}

// Confirm presents the discard-running-brew dialog. Closing the dialog
// without choosing counts as declining.
func (win *Window) Confirm(title, message string, decision func(confirmed bool)) {
	dialog.ShowConfirm(title, message, decision, win.window)
}

func formatRemaining(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}
