// Package config loads the arena host configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is "json" or "console".
	Format string `mapstructure:"format"`
}

// SimConfig controls the fixed-step loop.
type SimConfig struct {
	TickRate  int    `mapstructure:"tick_rate"`
	Frames    int    `mapstructure:"frames"`
	Seed      uint64 `mapstructure:"seed"`
	Autopilot bool   `mapstructure:"autopilot"`
	// RealTime sleeps between frames so spectators see the match at speed.
	RealTime bool `mapstructure:"real_time"`
}

// Dt is the frame step in seconds.
func (s SimConfig) Dt() float64 {
	if s.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.TickRate)
}

// PrefabsConfig points at optional on-disk tuning overrides.
type PrefabsConfig struct {
	Dir       string `mapstructure:"dir"`
	HotReload bool   `mapstructure:"hot_reload"`
}

type SpectatorConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Addr        string   `mapstructure:"addr"`
	BroadcastHz float64  `mapstructure:"broadcast_hz"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// Config is the top-level configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Sim       SimConfig       `mapstructure:"sim"`
	Prefabs   PrefabsConfig   `mapstructure:"prefabs"`
	Spectator SpectatorConfig `mapstructure:"spectator"`
	Window    WindowConfig    `mapstructure:"window"`
}

// Validate checks every section and reports all violations at once.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSim(c.Sim); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSpectator(c.Spectator); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWindow(c.Window); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSim(s SimConfig) error {
	var errs []string
	if s.TickRate < 1 || s.TickRate > 1000 {
		errs = append(errs, fmt.Sprintf("sim.tick_rate must be 1-1000, got %d", s.TickRate))
	}
	if s.Frames < 0 {
		errs = append(errs, fmt.Sprintf("sim.frames must be >= 0, got %d", s.Frames))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateSpectator(s SpectatorConfig) error {
	if !s.Enabled {
		return nil
	}
	var errs []string
	if s.Addr == "" {
		errs = append(errs, "spectator.addr must not be empty")
	}
	if s.BroadcastHz <= 0 {
		errs = append(errs, fmt.Sprintf("spectator.broadcast_hz must be > 0, got %v", s.BroadcastHz))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateWindow(w WindowConfig) error {
	if w.Width < 1 || w.Height < 1 {
		return fmt.Errorf("window size must be positive, got %dx%d", w.Width, w.Height)
	}
	return nil
}

// Load reads the yaml file at path, applies MAW_ environment overrides and
// validates the result. An empty path uses defaults and the environment only.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("MAW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewViper returns a viper instance carrying the defaults.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("sim.tick_rate", 60)
	v.SetDefault("sim.frames", 60*180)
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.autopilot", true)
	v.SetDefault("sim.real_time", false)

	v.SetDefault("prefabs.dir", "")
	v.SetDefault("prefabs.hot_reload", false)

	v.SetDefault("spectator.enabled", false)
	v.SetDefault("spectator.addr", "127.0.0.1:8090")
	v.SetDefault("spectator.broadcast_hz", 10)
	v.SetDefault("spectator.cors_origins", []string{"*"})

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "Maw Arena")
}
