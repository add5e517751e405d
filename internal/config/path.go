package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// configNames are tried in order inside the config dir; the first is also
// where a fresh default file is written.
var configNames = []string{"config.jsonc", "config.toml", "config.yaml", "config.yml"}

// ResolvePath returns explicit when set. Otherwise it looks in
// $XDG_CONFIG_HOME/transkeet (or ~/.config/transkeet) for the first config
// file that exists, falling back to config.jsonc there.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return filepath.Join(dir, configNames[0]), nil
}

func configDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "transkeet"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}
	return filepath.Join(home, ".config", "transkeet"), nil
}
