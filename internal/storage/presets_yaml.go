package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuppa/internal/core/model"
	"gopkg.in/yaml.v3"
)

const presetsFileName = "presets.yaml"

type yamlPreset struct {
	Name        string `yaml:"name"`
	BrewSeconds int    `yaml:"brew_seconds"`
	Temp        string `yaml:"temp,omitempty"`
	Color       string `yaml:"color,omitempty"`
}

type yamlPresetFile struct {
	Presets []yamlPreset `yaml:"presets"`
}

// LoadPresets reads the configured brewing presets from YAML.
// If the config file does not exist, the built-in defaults are returned.
func LoadPresets(appName string) ([]model.Preset, error) {
	configPath, err := resolveConfigPath(appName, presetsFileName)
	if err != nil {
		return model.DefaultPresets(), err
	}
	return loadPresetsFile(configPath)
}

// SavePresets writes the brewing presets to YAML.
func SavePresets(appName string, presets []model.Preset) error {
	configPath, err := resolveConfigPath(appName, presetsFileName)
	if err != nil {
		return err
	}
	return savePresetsFile(configPath, presets)
}

func loadPresetsFile(path string) ([]model.Preset, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultPresets(), nil
		}
		return model.DefaultPresets(), fmt.Errorf("read presets file: %w", err)
	}

	var fileData yamlPresetFile
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return model.DefaultPresets(), fmt.Errorf("parse presets yaml: %w", err)
	}

	presets := make([]model.Preset, 0, len(fileData.Presets))
	for _, entry := range fileData.Presets {
		if entry.Name == "" || entry.BrewSeconds <= 0 {
			continue
		}
		presets = append(presets, model.NewPreset(entry.Name, entry.BrewSeconds, entry.Temp, entry.Color))
	}
	if len(presets) == 0 {
		return model.DefaultPresets(), nil
	}
	return presets, nil
}

func savePresetsFile(path string, presets []model.Preset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlPresetFile{Presets: make([]yamlPreset, 0, len(presets))}
	for _, preset := range presets {
		fileData.Presets = append(fileData.Presets, yamlPreset{
			Name:        preset.Name,
			BrewSeconds: preset.BrewSeconds,
			Temp:        preset.TempDisplay,
			Color:       preset.Color,
		})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal presets yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write presets file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}
