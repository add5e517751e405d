package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a supported config file syntax.
type Format string

const (
	FormatJSONC Format = "jsonc"
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
)

// FormatForPath picks a format from the file extension. Anything that is not
// TOML or YAML is read as JSONC.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSONC
	}
}

// Parse decodes content over base and validates the result. Decode errors
// (syntax, unknown keys, wrong types) are returned; field-level problems are
// corrected in place and reported as warnings.
func Parse(content string, format Format, base Config) (Config, []Warning, error) {
	var (
		payload filePayload
		err     error
	)
	switch format {
	case FormatTOML:
		payload, err = decodeTOML(content)
	case FormatYAML:
		payload, err = decodeYAML(content)
	case FormatJSONC, "":
		payload, err = decodeJSONC(content)
	default:
		return Config{}, nil, fmt.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return Config{}, nil, err
	}

	cfg := cloneConfig(base)
	warnings := payload.applyTo(&cfg)

	cfg, validated := Validate(cfg)
	return cfg, append(warnings, validated...), nil
}

func decodeTOML(content string) (filePayload, error) {
	var payload filePayload
	md, err := toml.Decode(content, &payload)
	if err != nil {
		return filePayload{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return filePayload{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return payload, nil
}

func decodeYAML(content string) (filePayload, error) {
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(content)))
	decoder.KnownFields(true)

	var payload filePayload
	if err := decoder.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return filePayload{}, nil
		}
		return filePayload{}, err
	}
	return payload, nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Vocabulary = append([]string(nil), cfg.Vocabulary...)
	out.Replacements = append([]ReplacementConfig(nil), cfg.Replacements...)
	return out
}
