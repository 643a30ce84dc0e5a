package preferences

import (
	"strconv"
	"strings"

	"cuppa/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

type presetRow struct {
	name    *widget.Entry
	seconds *widget.Entry
	temp    *widget.Entry
	color   string
}

// Window handles the preset editor UI.
type Window struct {
	window fyne.Window
	rows   []presetRow
	onSave func([]model.Preset)
}

// New creates a preferences window seeded with the current presets.
func New(app fyne.App, presets []model.Preset, onSave func([]model.Preset)) *Window {
	window := app.NewWindow("Cuppa Preferences")

	prefs := &Window{
		window: window,
		onSave: onSave,
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Brewing presets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, preset := range presets {
		row := presetRow{
			name:    widget.NewEntry(),
			seconds: widget.NewEntry(),
			temp:    widget.NewEntry(),
			color:   preset.Color,
		}
		row.name.SetText(preset.Name)
		row.seconds.SetText(strconv.Itoa(preset.BrewSeconds))
		row.temp.SetText(preset.TempDisplay)

		prefs.rows = append(prefs.rows, row)
		form.Add(container.NewHBox(
			row.name,
			row.seconds, widget.NewLabel("sec"),
			row.temp,
		))
	}

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 320))

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

func (prefs *Window) handleSave() {
	presets := make([]model.Preset, 0, len(prefs.rows))
	for _, row := range prefs.rows {
		name := strings.TrimSpace(row.name.Text)
		seconds, ok := parsePositiveInt(row.seconds.Text)
		if name == "" || !ok {
			continue
		}
		presets = append(presets, model.NewPreset(name, seconds, strings.TrimSpace(row.temp.Text), row.color))
	}
	if len(presets) == 0 {
		return
	}

	prefs.window.Hide()
	if prefs.onSave != nil {
		prefs.onSave(presets)
	}
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
