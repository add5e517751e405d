package config

import (
	"errors"
	"fmt"
	"os"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Format   Format
	Config   Config
	Warnings []Warning
	Exists   bool
	// Err is set when the file existed but could not be read or decoded and
	// defaults were used instead.
	Err error
}

// Load resolves, reads, parses, and validates the runtime configuration.
// A missing or malformed file yields defaults plus a warning; only path
// resolution failures are returned as errors.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	loaded := Loaded{
		Path:   resolvedPath,
		Format: FormatForPath(resolvedPath),
		Config: Default(),
	}

	content, err := os.ReadFile(resolvedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			loaded.Warnings = []Warning{{
				Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
			}}
			return loaded, nil
		}
		loaded.Exists = true
		loaded.Err = fmt.Errorf("read config %q: %w", resolvedPath, err)
		loaded.Warnings = []Warning{{Message: fmt.Sprintf("%v; using defaults", loaded.Err)}}
		return loaded, nil
	}
	loaded.Exists = true

	cfg, warnings, err := Parse(string(content), loaded.Format, Default())
	if err != nil {
		loaded.Err = fmt.Errorf("parse config %q: %w", resolvedPath, err)
		loaded.Warnings = []Warning{{Message: fmt.Sprintf("%v; using defaults", loaded.Err)}}
		return loaded, nil
	}

	loaded.Config = cfg
	loaded.Warnings = warnings
	return loaded, nil
}
