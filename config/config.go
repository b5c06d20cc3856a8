/*
Package config loads the optional YAML file holding command line defaults.
*/
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/snowymage/snowymage/sni"
	"gopkg.in/yaml.v2"
)

// Config holds defaults for the command line flags.
type Config struct {
	Verbosity string `yaml:"verbosity"`
	Overwrite bool   `yaml:"overwrite"`
	DB        string `yaml:"db"`
	Workers   int    `yaml:"workers"`
	Colors    int    `yaml:"colors"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Verbosity: sni.VerbosityError.String(),
		Workers:   runtime.NumCPU(),
	}
}

// Load reads the configuration file at path over the defaults. An empty
// path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
	}

	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration file '%s': %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := sni.ParseVerbosity(c.Verbosity); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Colors < 0 || c.Colors > sni.MaxColors {
		return fmt.Errorf("colors must be between 0 and %d, got %d", sni.MaxColors, c.Colors)
	}
	return nil
}

// Level returns the configured verbosity.
func (c *Config) Level() sni.Verbosity {
	v, err := sni.ParseVerbosity(c.Verbosity)
	if err != nil {
		return sni.VerbosityError
	}
	return v
}
