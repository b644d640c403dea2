package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type EndpointConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LimitsConfig bounds graph size and display text. These are data-shaping
// knobs, not correctness-critical settings.
type LimitsConfig struct {
	MaxRows       int `toml:"max_rows"`
	MaxLiteralLen int `toml:"max_literal_len"`
	MaxLabelLen   int `toml:"max_label_len"`
}

type RenderConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Iterations int    `toml:"iterations"`
	Seed       int64  `toml:"seed"`
	FontPath   string `toml:"font_path"`
}

// PromptsConfig overrides the built-in LLM prompt templates. Empty fields
// keep the defaults compiled into the nl2sparql package.
type PromptsConfig struct {
	Detection  string `toml:"detection"`
	Generation string `toml:"generation"`
}

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Endpoint EndpointConfig `toml:"endpoint"`
	Limits   LimitsConfig   `toml:"limits"`
	Render   RenderConfig   `toml:"render"`
	Prompts  PromptsConfig  `toml:"prompts"`
	OutDir   string         `toml:"out_dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a config usable without any config file.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Endpoint.URL == "" {
		c.Endpoint.URL = "https://dbpedia.org/sparql"
	}
	if c.Endpoint.TimeoutSeconds <= 0 {
		c.Endpoint.TimeoutSeconds = 30
	}
	if c.Limits.MaxRows <= 0 {
		c.Limits.MaxRows = 10
	}
	if c.Limits.MaxLiteralLen <= 0 {
		c.Limits.MaxLiteralLen = 50
	}
	if c.Limits.MaxLabelLen <= 0 {
		c.Limits.MaxLabelLen = 20
	}
	if c.Render.Width <= 0 {
		c.Render.Width = 1000
	}
	if c.Render.Height <= 0 {
		c.Render.Height = 700
	}
	if c.Render.Iterations <= 0 {
		c.Render.Iterations = 50
	}
	if c.Render.Seed == 0 {
		c.Render.Seed = 42
	}
	if c.OutDir == "" {
		c.OutDir = "out"
	}
}

// ApplyEnv overrides file config with environment variables when present.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("SPARQL_ENDPOINT"); v != "" {
		c.Endpoint.URL = v
	}
	if v := os.Getenv("OUT_DIR"); v != "" {
		c.OutDir = v
	}
}
