package library

import (
	"context"
	"encoding/json"
	"fmt"
)

const settingsConfigKey = "settings"

// Settings are the operator preferences persisted in the config table.
// Keybinds maps action names to key names; unset actions fall back to the
// keymap defaults.
type Settings struct {
	ScrubDurationSec float64           `json:"scrub_duration_sec"`
	Keybinds         map[string]string `json:"keybinds,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{ScrubDurationSec: 1.0}
}

func LoadSettings(ctx context.Context, repo Repository) (Settings, error) {
	raw, err := repo.GetConfig(ctx, settingsConfigKey)
	if err != nil {
		return DefaultSettings(), err
	}
	if raw == "" {
		return DefaultSettings(), nil
	}

	settings := DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings.ScrubDurationSec <= 0 {
		settings.ScrubDurationSec = 1.0
	}
	return settings, nil
}

func SaveSettings(ctx context.Context, repo Repository, settings Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return repo.SetConfig(ctx, settingsConfigKey, string(raw))
}
