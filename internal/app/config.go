package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/vk/sduigo/internal/platform"
	"github.com/vk/sduigo/internal/render"
	"gopkg.in/yaml.v3"
)

// Commands.
const (
	CommandCompile = "compile"
	CommandRender  = "render"
	CommandServe   = "serve"
)

// Commands lists every command in usage order.
var Commands = []string{CommandCompile, CommandRender, CommandServe}

// Environment variables consulted when neither a flag nor the config file
// sets the value.
const (
	EnvRedisURL = "SDUIGO_REDIS_URL"
	EnvListen   = "SDUIGO_LISTEN"
)

// DefaultListen is the serve address when nothing else sets one.
const DefaultListen = ":8080"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command string
	Path    string // .hcl sources for compile and serve, a scenario JSON file for render

	// compile
	Out string

	// render
	Props    string // inline JSON object, or @file
	Platform string
	Format   string
	Fragment string
	Page     bool

	// serve
	Listen   string
	RedisURL string
	Watch    bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if !slices.Contains(Commands, cfg.Command) {
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.Path == "" {
		return nil, errors.New("PATH is required")
	}
	if cfg.Platform != "" && !platform.Valid(cfg.Platform) {
		return nil, fmt.Errorf("invalid platform %q: must be one of %v", cfg.Platform, platform.Names)
	}
	switch cfg.Format {
	case "", render.FormatJSON, render.FormatYAML:
	default:
		return nil, fmt.Errorf("invalid format %q: must be %q or %q", cfg.Format, render.FormatJSON, render.FormatYAML)
	}
	if cfg.Command == CommandServe && cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	return &cfg, nil
}

// FileConfig is the optional YAML config file. Empty fields leave the
// corresponding setting alone.
type FileConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Listen    string `yaml:"listen"`
	Source    string `yaml:"source"`
	RedisURL  string `yaml:"redis_url"`
	Watch     *bool  `yaml:"watch"`
	Platform  string `yaml:"platform"`
}

// LoadFile reads a YAML config file. Unknown keys are rejected.
func LoadFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}
