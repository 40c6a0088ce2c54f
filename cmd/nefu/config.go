package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

const configFileName = "nefu.toml"

type fileConfig struct {
	Display displayConfig `toml:"display"`
	Script  scriptConfig  `toml:"script"`
	Log     logConfig     `toml:"log"`
}

type displayConfig struct {
	Mode   string `toml:"mode"`
	Cursor string `toml:"cursor"`
}

type scriptConfig struct {
	Encoding string `toml:"encoding"`
}

type logConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Display: displayConfig{Mode: "plain", Cursor: "> "},
		Script:  scriptConfig{Encoding: "utf-8"},
		Log:     logConfig{Level: "warn"},
	}
}

// loadFileConfig decodes path over the defaults. With an empty path it
// looks for nefu.toml next to the script and silently falls back to the
// defaults when there is none.
func loadFileConfig(path, script string) (fileConfig, error) {
	cfg := defaultFileConfig()
	explicit := path != ""
	if !explicit {
		path = filepath.Join(filepath.Dir(script), configFileName)
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c fileConfig) validate() error {
	switch c.Display.Mode {
	case "plain", "tui":
	default:
		return fmt.Errorf("display.mode must be plain or tui, got %q", c.Display.Mode)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
