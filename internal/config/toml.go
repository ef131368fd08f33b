package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Break    BreakConfig    `toml:"break"`
}

// DefaultsConfig maps settings shared by all commands.
type DefaultsConfig struct {
	Lang     *string `toml:"lang"`
	Cipher   *string `toml:"cipher"`
	Alphabet *string `toml:"alphabet"`
}

// BreakConfig maps cryptanalysis settings.
type BreakConfig struct {
	MaxKeyLen *int `toml:"max-key-len"`
	Workers   *int `toml:"workers"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
