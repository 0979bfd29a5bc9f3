package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the engine core configuration.
type Config struct {
	// Arena is the persistent arena that lives as long as the core.
	Arena ArenaConfig `yaml:"arena"`
	// Frame is the arena rewound at the end of every frame.
	Frame    ArenaConfig    `yaml:"frame"`
	Scratch  ScratchConfig  `yaml:"scratch"`
	Entities EntitiesConfig `yaml:"entities"`
	Memory   MemoryConfig   `yaml:"memory"`
	Log      LogConfig      `yaml:"log"`
}

// ArenaConfig sizes one arena.
type ArenaConfig struct {
	Reserve Size `yaml:"reserve" validate:"gt=0"`
	Commit  Size `yaml:"commit" validate:"gt=0,ltefield=Reserve"`
}

// ScratchConfig sizes the scratch pool.
type ScratchConfig struct {
	Count   int  `yaml:"count" validate:"min=1,max=16"`
	Reserve Size `yaml:"reserve" validate:"gt=0"`
	Commit  Size `yaml:"commit" validate:"gt=0,ltefield=Reserve"`
}

// EntitiesConfig sizes the entity pool.
type EntitiesConfig struct {
	Reserve Size `yaml:"reserve" validate:"gt=0"`
}

// MemoryConfig bounds committed memory. A zero limit means unlimited.
type MemoryConfig struct {
	Limit Size `yaml:"limit" validate:"gte=0"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// SlogLevel returns the slog level for Level.
func (c LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Arena:    ArenaConfig{Reserve: 256 << 20, Commit: 64 << 10},
		Frame:    ArenaConfig{Reserve: 64 << 20, Commit: 64 << 10},
		Scratch:  ScratchConfig{Count: 4, Reserve: 64 << 20, Commit: 64 << 10},
		Entities: EntitiesConfig{Reserve: 64 << 20},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks field constraints.
func (c Config) Validate() error {
	return formatValidationError(validate.Struct(c))
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Report the first failure, naming the full field path.
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "gt":
			return fmt.Errorf("config: %s: must be greater than %s", field, param)
		case "gte":
			return fmt.Errorf("config: %s: must be at least %s", field, param)
		case "min":
			return fmt.Errorf("config: %s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("config: %s: must not exceed %s", field, param)
		case "ltefield":
			return fmt.Errorf("config: %s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("config: %s: must be one of [%s], got %q", field, param, e.Value())
		default:
			return fmt.Errorf("config: %s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
