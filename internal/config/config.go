package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds tunable scoreboard behavior loaded from a JSON file
// shipped alongside the module.
type GameConfig struct {
	// Hold-to-confirm durations for destructive actions, in milliseconds.
	UndoHoldMS  int `json:"undo_hold_ms"`
	ResetHoldMS int `json:"reset_hold_ms"`
	BackHoldMS  int `json:"back_hold_ms"`
	MuteHoldMS  int `json:"mute_hold_ms"`

	// HistoryLimit caps the undo history kept in the shared record.
	HistoryLimit int `json:"history_limit"`

	// StorePollSeconds configures how often a match polls the shared
	// record for writes made by other clients.
	StorePollSeconds int `json:"store_poll_seconds"`
}

// Defaults applied when no config file is present or a field is unset.
const (
	defaultUndoHoldMS       = 550
	defaultResetHoldMS      = 1050
	defaultBackHoldMS       = 550
	defaultMuteHoldMS       = 550
	defaultHistoryLimit     = 500
	defaultStorePollSeconds = 2
)

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when no
// file was loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

func intOrDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

// GetUndoHoldMS returns the undo hold duration.
func GetUndoHoldMS() int {
	if cfg == nil {
		return defaultUndoHoldMS
	}
	return intOrDefault(cfg.UndoHoldMS, defaultUndoHoldMS)
}

// GetResetHoldMS returns the reset hold duration.
func GetResetHoldMS() int {
	if cfg == nil {
		return defaultResetHoldMS
	}
	return intOrDefault(cfg.ResetHoldMS, defaultResetHoldMS)
}

// GetBackHoldMS returns the back/exit hold duration.
func GetBackHoldMS() int {
	if cfg == nil {
		return defaultBackHoldMS
	}
	return intOrDefault(cfg.BackHoldMS, defaultBackHoldMS)
}

// GetMuteHoldMS returns the mute toggle hold duration.
func GetMuteHoldMS() int {
	if cfg == nil {
		return defaultMuteHoldMS
	}
	return intOrDefault(cfg.MuteHoldMS, defaultMuteHoldMS)
}

// GetHistoryLimit returns the undo history cap.
func GetHistoryLimit() int {
	if cfg == nil {
		return defaultHistoryLimit
	}
	return intOrDefault(cfg.HistoryLimit, defaultHistoryLimit)
}

// GetStorePollSeconds returns the shared-record poll cadence.
func GetStorePollSeconds() int {
	if cfg == nil {
		return defaultStorePollSeconds
	}
	return intOrDefault(cfg.StorePollSeconds, defaultStorePollSeconds)
}
