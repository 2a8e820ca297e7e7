// Package config loads rdviewer.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"rdviewer/internal/input"
	"rdviewer/internal/protocol"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "rdviewer.yaml"

type Config struct {
	Endpoint      string         `yaml:"endpoint"`
	Variant       string         `yaml:"variant"`
	Wheel         string         `yaml:"wheel"`
	StrictButtons bool           `yaml:"strict_buttons"`
	NoticeTTL     time.Duration  `yaml:"notice_ttl"`
	Window        WindowConfig   `yaml:"window"`
	Autotype      AutotypeConfig `yaml:"autotype"`
	Log           LogConfig      `yaml:"log"`
	MetricsAddr   string         `yaml:"metrics_addr"`
	Host          HostConfig     `yaml:"host"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// AutotypeConfig names the environment variable holding the credential
// text and whether Enter follows it.
type AutotypeConfig struct {
	Env   string `yaml:"env"`
	Enter bool   `yaml:"enter"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HostConfig struct {
	Addr    string `yaml:"addr"`
	FPS     int    `yaml:"fps"`
	Display int    `yaml:"display"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Endpoint:  "ws://127.0.0.1:21121",
		Variant:   protocol.VariantTyped.String(),
		Wheel:     input.WheelInvert.String(),
		NoticeTTL: 15 * time.Second,
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "rdviewer",
		},
		Autotype: AutotypeConfig{
			Env:   "RDVIEWER_AUTOTYPE",
			Enter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Host: HostConfig{
			Addr: "127.0.0.1:21121",
			FPS:  10,
		},
	}
}

// Load reads path over the defaults, then applies environment overrides. A
// missing file is not an error when path is DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("RDVIEWER_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("RDVIEWER_VARIANT"); v != "" {
		c.Variant = v
	}
	if v := os.Getenv("RDVIEWER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ADDR"); v != "" {
		c.Host.Addr = v
	}
	if v := os.Getenv("RDVIEWER_FPS"); v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: RDVIEWER_FPS: %w", err)
		}
		c.Host.FPS = fps
	}
	return nil
}

// Validate checks the values that have a closed set of options.
func (c *Config) Validate() error {
	if _, err := protocol.ParseVariant(c.Variant); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := input.ParseWheelPolicy(c.Wheel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Host.FPS <= 0 {
		return fmt.Errorf("config: host fps %d must be positive", c.Host.FPS)
	}
	if c.NoticeTTL < 0 {
		return fmt.Errorf("config: notice_ttl %s is negative", c.NoticeTTL)
	}
	return nil
}

// ProtocolVariant returns the parsed framing variant.
func (c *Config) ProtocolVariant() protocol.Variant {
	v, _ := protocol.ParseVariant(c.Variant)
	return v
}

// WheelPolicy returns the parsed wheel policy.
func (c *Config) WheelPolicy() input.WheelPolicy {
	p, _ := input.ParseWheelPolicy(c.Wheel)
	return p
}

// Credentials returns the autotype source.
func (c *Config) Credentials() input.CredentialSource {
	return input.EnvCredentials{Var: c.Autotype.Env, Enter: c.Autotype.Enter}
}
