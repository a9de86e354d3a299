// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

//go:embed locales.yaml
var defaultSettings []byte

// Format is a settings file format.
type Format int

const (
	// FormatAuto detects the format from the file extension.
	FormatAuto Format = iota
	// FormatYAML is a YAML settings file.
	FormatYAML
	// FormatTOML is a TOML settings file.
	FormatTOML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "auto"
	}
}

// Settings is the locale section of the configuration.
type Settings struct {
	// Languages in tab order. The first one is the default locale.
	Languages []model.Language `yaml:"languages" toml:"languages"`

	// Fallbacks is the chain used by languages without their own.
	// Defaults to the first language.
	Fallbacks []string `yaml:"fallbacks" toml:"fallbacks"`

	Headings HeadingSettings `yaml:"headings" toml:"headings"`
}

// HeadingSettings configures locale tab labels.
// Empty templates fall back to Default, then to "{locale}".
type HeadingSettings struct {
	Default      string         `yaml:"default" toml:"default"`
	Translated   string         `yaml:"translated" toml:"translated"`
	Untranslated string         `yaml:"untranslated" toml:"untranslated"`
	Status       StatusSettings `yaml:"status" toml:"status"`
}

// StatusSettings holds the status markers per heading category.
// A nil marker means "use the built-in default".
type StatusSettings struct {
	Creating     *string `yaml:"creating" toml:"creating"`
	Translated   *string `yaml:"translated" toml:"translated"`
	Untranslated *string `yaml:"untranslated" toml:"untranslated"`
}

// DefaultSettings returns the embedded settings (fr, en, es).
func DefaultSettings() Settings {
	s, err := ParseSettings(defaultSettings, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded locale settings: %v", err))
	}
	return s
}

// LoadSettings reads locale settings from a YAML or TOML file.
// An empty path returns the embedded defaults.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: reading locale settings %s: %v", model.ErrConfiguration, path, err)
	}

	format := detectFormat(path)
	if format == FormatAuto {
		return Settings{}, fmt.Errorf("%w: unsupported locale settings extension %q", model.ErrConfiguration, filepath.Ext(path))
	}

	return ParseSettings(data, format)
}

// ParseSettings decodes settings content in the given format.
func ParseSettings(data []byte, format Format) (Settings, error) {
	var s Settings
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	default:
		return Settings{}, fmt.Errorf("%w: unknown settings format", model.ErrConfiguration)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%w: parsing %s locale settings: %v", model.ErrConfiguration, format, err)
	}

	return s, nil
}

// detectFormat maps a file extension to a settings format.
func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatAuto
	}
}
