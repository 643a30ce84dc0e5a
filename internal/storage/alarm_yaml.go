package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuppa/internal/core/model"
	"gopkg.in/yaml.v3"
)

const alarmFileName = "alarm.yaml"

type yamlAlarm struct {
	PresetID      string `yaml:"preset_id"`
	EndTimeUnixMs int64  `yaml:"end_time_unix_ms"`
}

// AlarmFile stores the persisted alarm snapshot as a YAML file in the app's
// config directory. Absence of the file means no alarm is persisted.
type AlarmFile struct {
	path string
}

// NewAlarmFile creates the alarm store for appName's config directory.
func NewAlarmFile(appName string) (*AlarmFile, error) {
	path, err := resolveConfigPath(appName, alarmFileName)
	if err != nil {
		return nil, err
	}
	return &AlarmFile{path: path}, nil
}

// PersistedAlarm returns the stored alarm snapshot, if any.
func (store *AlarmFile) PersistedAlarm() (model.PersistedAlarm, bool, error) {
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.PersistedAlarm{}, false, nil
		}
		return model.PersistedAlarm{}, false, fmt.Errorf("read alarm file: %w", err)
	}

	var fileData yamlAlarm
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return model.PersistedAlarm{}, false, fmt.Errorf("parse alarm yaml: %w", err)
	}
	if fileData.PresetID == "" || fileData.EndTimeUnixMs == 0 {
		return model.PersistedAlarm{}, false, nil
	}

	return model.PersistedAlarm{
		PresetID: fileData.PresetID,
		EndTime:  time.UnixMilli(fileData.EndTimeUnixMs),
	}, true, nil
}

// SavePersistedAlarm writes the alarm snapshot, creating the config
// directory if needed.
func (store *AlarmFile) SavePersistedAlarm(alarm model.PersistedAlarm) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(yamlAlarm{
		PresetID:      alarm.PresetID,
		EndTimeUnixMs: alarm.EndTime.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal alarm yaml: %w", err)
	}

	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write alarm file: %w", err)
	}

	return nil
}

// ClearPersistedAlarm removes the alarm snapshot. Clearing an already absent
// snapshot is not an error.
func (store *AlarmFile) ClearPersistedAlarm() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove alarm file: %w", err)
	}
	return nil
}
