package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds CLI defaults persisted in ~/.config/avocavo/cli.toml.
// Anything unreadable falls back to defaults; the CLI must keep working
// without a prefs file.
type Prefs struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Output         string `toml:"output"` // "text" or "json"
}

const defaultPrefsPath = "~/.config/avocavo/cli.toml"

func defaultPrefs() Prefs {
	return Prefs{TimeoutSeconds: 30, Output: "text"}
}

// DefaultPrefsPath returns the default preferences file path.
func DefaultPrefsPath() string {
	return defaultPrefsPath
}

// LoadPrefs reads preferences from path, falling back to defaults when the
// file is missing or malformed.
func LoadPrefs(path string) Prefs {
	prefs := defaultPrefs()

	resolved, err := expandPath(path)
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return prefs
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return defaultPrefs()
	}
	if prefs.TimeoutSeconds <= 0 {
		prefs.TimeoutSeconds = 30
	}
	if strings.TrimSpace(prefs.Output) == "" {
		prefs.Output = "text"
	}
	return prefs
}

// SavePrefs writes preferences to path, creating directories as needed.
func SavePrefs(path string, p Prefs) error {
	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultPrefsPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", errors.New("prefs path is not resolvable")
	}
	return abs, nil
}
