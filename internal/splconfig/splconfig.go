// Package splconfig loads the interpreter's ambient configuration from
// an optional YAML file using struct tags.
package splconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds settings that shape interpreter behavior but are never
// part of the language itself.
type Config struct {
	// MaxCallDepth bounds how many nested function calls the evaluator
	// will follow natively before raising a call-stack-exhausted
	// runtime error instead of letting the host process overflow its
	// own stack.
	MaxCallDepth int `yaml:"max_call_depth"`
	// Verbose turns on stage-level execution tracing through spllog.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{MaxCallDepth: 255, Verbose: false}
}

// Load reads and parses the YAML file at path. A missing file is not
// an error: it yields Default() so the interpreter runs the same way
// whether or not a config file exists. A present but malformed file
// is reported.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve finds the ambient config path: the SPL_CONFIG environment
// variable if set, otherwise ./spl.yml, and loads it.
func Resolve() (*Config, error) {
	if path := os.Getenv("SPL_CONFIG"); path != "" {
		return Load(path)
	}
	return Load("spl.yml")
}
