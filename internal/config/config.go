// Package config loads server and match settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jaminalder/reversi/internal/ai"
	"github.com/jaminalder/reversi/internal/domain"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
	Match  Match  `yaml:"match"`
	Search Search `yaml:"search"`
	Export Export `yaml:"export"`
}

type Server struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_ms"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Match holds the defaults for unattended play.
type Match struct {
	// TargetDiscs stops play at this disc count; 0 plays to the end.
	TargetDiscs int    `yaml:"target_discs"`
	Red         string `yaml:"red"`
	White       string `yaml:"white"`
	Depth       int    `yaml:"depth"`
	Seed        uint64 `yaml:"seed"`
	// Captures is how many leading steps are exported as snapshots.
	Captures int `yaml:"captures"`
}

type Search struct {
	CacheSize int `yaml:"cache_size"`
}

type Export struct {
	Dir string `yaml:"dir"`
}

func Default() Config {
	return Config{
		Server: Server{Addr: ":8080", ShutdownTimeout: 5000},
		Log:    Log{Level: "info"},
		Match: Match{
			Red:   "first",
			White: "first",
			Depth: 1,
		},
		Search: Search{CacheSize: 1 << 16},
		Export: Export{Dir: "./ReversiGame"},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout_ms < 0", ErrInvalid)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if c.Match.TargetDiscs < 0 || c.Match.TargetDiscs > domain.Size*domain.Size {
		return fmt.Errorf("%w: match.target_discs %d out of range", ErrInvalid, c.Match.TargetDiscs)
	}
	if c.Match.Captures < 0 {
		return fmt.Errorf("%w: match.captures < 0", ErrInvalid)
	}
	if c.Match.Depth < 1 {
		return fmt.Errorf("%w: match.depth must be at least 1", ErrInvalid)
	}
	if _, _, err := c.Match.Strategies(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("%w: search.cache_size < 0", ErrInvalid)
	}
	return nil
}

// Strategies parses the configured per-colour strategies.
func (m Match) Strategies() (red, white ai.Strategy, err error) {
	if red, err = ai.ParseStrategy(m.Red, m.Depth); err != nil {
		return
	}
	white, err = ai.ParseStrategy(m.White, m.Depth)
	return
}

// Logger builds the zap logger described by l.
func (l Log) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
