// Package config loads the cauldron configuration file.
//
// The file is YAML and decoded strictly: unknown keys are an error, so a
// typo like "backed: sqlite" fails loudly instead of silently using the
// default backend. A missing file yields Default().
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "cauldron.yaml"

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the on-disk configuration.
type Config struct {
	// Backend selects where snapshots are stored: "file" or "sqlite".
	Backend string `yaml:"backend" validate:"required,oneof=file sqlite"`

	// DataDir holds snapshot files and the SQLite database.
	DataDir string `yaml:"data_dir" validate:"required"`

	// Database is the SQLite file name, relative to DataDir.
	Database string `yaml:"database" validate:"required"`

	// URLSchemes are the prefixes a staged URL may start with.
	URLSchemes []string `yaml:"url_schemes" validate:"required,min=1,dive,required"`

	LogLevel string `yaml:"log_level" validate:"required,oneof=debug info warn error"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend:    BackendFile,
		DataDir:    ".cauldron",
		Database:   "cauldron.db",
		URLSchemes: []string{"http://", "https://"},
		LogLevel:   "info",
	}
}

// Load reads the config file at path. Keys absent from the file keep their
// default values. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := Decode(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses YAML into cfg, overwriting only the keys present, and then
// validates the result.
func Decode(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// DatabasePath is the SQLite file location.
func (c Config) DatabasePath() string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.DataDir, c.Database)
}

// Level maps LogLevel to a slog level.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
