package storage

import (
	"os"
	"path/filepath"
	"testing"

	"cuppa/internal/core/model"

	"github.com/stretchr/testify/assert"
)

func TestLoadPresetsMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), presetsFileName)

	presets, err := loadPresetsFile(path)
	assert.NoError(t, err)
	assert.Equal(t, model.DefaultPresets(), presets)
}

func TestPresetsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), presetsFileName)
	saved := []model.Preset{
		model.NewPreset("Sencha", 120, "70°C", "green"),
		model.NewPreset("Pu-erh", 270, "100°C", "black"),
	}

	assert.NoError(t, savePresetsFile(path, saved))

	loaded, err := loadPresetsFile(path)
	assert.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadPresetsSkipsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), presetsFileName)
	content := `presets:
  - name: Black Tea
    brew_seconds: 240
    temp: 100°C
  - name: ""
    brew_seconds: 60
  - name: Broken
    brew_seconds: 0
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	presets, err := loadPresetsFile(path)
	assert.NoError(t, err)
	assert.Len(t, presets, 1)
	assert.Equal(t, "black-tea", presets[0].ID)
}

func TestLoadPresetsAllInvalidFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), presetsFileName)
	assert.NoError(t, os.WriteFile(path, []byte("presets: []\n"), 0o644))

	presets, err := loadPresetsFile(path)
	assert.NoError(t, err)
	assert.Equal(t, model.DefaultPresets(), presets)
}

func TestLoadPresetsCorruptYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), presetsFileName)
	assert.NoError(t, os.WriteFile(path, []byte("presets: [oops"), 0o644))

	presets, err := loadPresetsFile(path)
	assert.Error(t, err)
	assert.Equal(t, model.DefaultPresets(), presets, "defaults still usable after a parse failure")
}
