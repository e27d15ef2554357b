package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
	"github.com/k1LoW/prez"
)

var (
	homePath       string
	configHomePath string
	dataHomePath   string
	stateHomePath  string
)

type Config struct {
	// Template is the default template path used when the deck file and
	// flags do not set one.
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
	// Base is the default output base name.
	Base string `yaml:"base,omitempty" json:"base,omitempty"`
	// Version is the default deck version used in output file names.
	Version *int `yaml:"version,omitempty" json:"version,omitempty"`
	// Numbers turns slide numbers on by default.
	Numbers *bool `yaml:"numbers,omitempty" json:"numbers,omitempty"`
	// Colors overrides the brand theme colors.
	Colors *Colors `yaml:"colors,omitempty" json:"colors,omitempty"`
	// ExportCommand converts generated decks, a LibreOffice PDF command for
	// example. It may reference {{input}}, {{output}} and {{env.XXX}}.
	ExportCommand string `yaml:"exportCommand,omitempty" json:"exportCommand,omitempty"`
	// OpenCommand opens generated decks; empty falls back to the OS opener.
	OpenCommand string `yaml:"openCommand,omitempty" json:"openCommand,omitempty"`
}

// Colors are RRGGBB theme color overrides.
type Colors struct {
	Dark string `yaml:"dark,omitempty" json:"dark,omitempty"`
	Teal string `yaml:"teal,omitempty" json:"teal,omitempty"`
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $PREZ_CONFIG_DIR or $XDG_CONFIG_HOME/prez/config-{profile}.yml
// 2. $PREZ_CONFIG_DIR or $XDG_CONFIG_HOME/prez/config.yml
// ${VAR} references in the file are expanded from the environment.
// If no config file is found, it returns an empty Config struct.
func Load(profile string) (*Config, error) {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(ConfigHomePath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(ConfigHomePath(), "config"))
	cfg := &Config{}
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			configPath := basePath + ext
			if b, err := os.ReadFile(configPath); err == nil {
				if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
					return nil, fmt.Errorf("failed to unmarshal config: %w", err)
				}
				return cfg, nil
			}
		}
	}
	// If no config file is found, return an empty config
	return cfg, nil
}

// Theme builds the brand theme with the config's color overrides applied.
func (c *Config) Theme() (*prez.Theme, error) {
	if c.Colors == nil {
		return prez.DefaultTheme(), nil
	}
	dark := prez.ColorDarkBlue
	teal := prez.ColorTeal
	if c.Colors.Dark != "" {
		var err error
		if dark, err = prez.ParseColor(c.Colors.Dark); err != nil {
			return nil, fmt.Errorf("failed to parse colors.dark: %w", err)
		}
	}
	if c.Colors.Teal != "" {
		var err error
		if teal, err = prez.ParseColor(c.Colors.Teal); err != nil {
			return nil, fmt.Errorf("failed to parse colors.teal: %w", err)
		}
	}
	return prez.NewTheme(dark, teal), nil
}

// ConfigHomePath returns the path to the configuration directory.
func ConfigHomePath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("PREZ_CONFIG_DIR"); v != "" {
		configHomePath = v
	} else if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, "prez")
	} else {
		configHomePath = filepath.Join(homePath, ".config", "prez")
	}
	return configHomePath
}

// DataHomePath returns the path to the data home directory.
func DataHomePath() string {
	if dataHomePath != "" {
		return dataHomePath
	}
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		dataHomePath = filepath.Join(v, "prez")
	} else {
		dataHomePath = filepath.Join(homePath, ".local", "share", "prez")
	}
	return dataHomePath
}

func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, "prez")
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", "prez")
	}
	return stateHomePath
}
