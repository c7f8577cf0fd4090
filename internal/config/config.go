// Package config holds all stratagem configuration: engine deadlines,
// synthesis weights, and LLM provider settings. Configuration loads from a
// JSON file with environment-variable overrides applied on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration object.
type Config struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// LLM provider settings for the inference client.
	LLM LLMConfig `json:"llm"`

	// Engine holds orchestration deadlines and dispatch limits.
	Engine EngineConfig `json:"engine"`

	// Synthesis holds confidence weights and coherence thresholds.
	Synthesis SynthesisConfig `json:"synthesis"`

	// DatabasePath locates the report history store.
	DatabasePath string `json:"database_path"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Name:         "stratagem",
		Version:      "1.0.0",
		LLM:          DefaultLLMConfig(),
		Engine:       DefaultEngineConfig(),
		Synthesis:    DefaultSynthesisConfig(),
		DatabasePath: filepath.Join(".stratagem", "reports.db"),
	}
}

// Load reads the config file at path, applies defaults for missing sections,
// and applies environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as indented JSON, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks section-level constraints.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	return c.Synthesis.Validate()
}

// applyEnvOverrides layers environment variables over file values.
// Precedence: GEMINI_API_KEY, then GOOGLE_API_KEY for the LLM key.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("STRATAGEM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if db := os.Getenv("STRATAGEM_DB"); db != "" {
		c.DatabasePath = db
	}
}
