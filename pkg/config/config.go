// Package config loads CLI configuration from a YAML file and
// STATUTA_* environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config drives the statuta CLI. Flags override these values.
type Config struct {
	// VariantDir holds YAML grammar override files loaded on top of
	// the built-ins.
	VariantDir string `yaml:"variant_dir" env:"STATUTA_VARIANT_DIR"`

	// Hint is a default jurisdiction hint applied when a document's
	// path carries no evidence.
	Hint string `yaml:"hint" env:"STATUTA_HINT"`

	// Output selects the record encoding: "json" or "csv".
	Output string `yaml:"output" env:"STATUTA_OUTPUT" env-default:"json"`

	// SampleBytes caps the content sample used for script detection.
	SampleBytes int `yaml:"sample_bytes" env:"STATUTA_SAMPLE_BYTES" env-default:"2000"`
}

// Load reads configuration from path when given, otherwise from the
// environment alone. A missing file is an error; an empty path is not.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}

// LoadDefault loads config from STATUTA_CONFIG when set, else from the
// environment.
func LoadDefault() (*Config, error) {
	return Load(os.Getenv("STATUTA_CONFIG"))
}
