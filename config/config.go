// Package config loads gogensolve settings from a TOML file layered over the
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/they4kman/gensolve/genetic"
	"github.com/they4kman/gensolve/plot"
	"github.com/they4kman/gensolve/store"
)

type Config struct {
	Genetic genetic.Params `toml:"genetic"`
	Store   store.Config   `toml:"store"`
	Plot    PlotConfig     `toml:"plot"`
	Log     LogConfig      `toml:"log"`
}

type PlotConfig struct {
	// PNG written after each solve. Empty skips plotting.
	Path string `toml:"path"`
	plot.Options
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() *Config {
	return &Config{
		Genetic: genetic.DefaultParams(),
		Plot:    PlotConfig{Options: plot.DefaultOptions()},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load decodes the file at path over Default. Keys the file sets that no
// setting matches are an error.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	defer file.Close()

	config := Default()
	md, err := toml.NewDecoder(file).Decode(config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the settings that are known before an equation is given.
// The gene count and target are checked once the Simulation is built.
func (c *Config) Validate() error {
	params := c.Genetic
	if params.NBits == 0 {
		params.NBits = 1
	}
	if err := params.Validate(); err != nil {
		return err
	}

	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	if _, err := c.Log.Formatter(); err != nil {
		return err
	}
	return nil
}

func (l LogConfig) ParseLevel() (logrus.Level, error) {
	return logrus.ParseLevel(l.Level)
}

func (l LogConfig) Formatter() (logrus.Formatter, error) {
	switch l.Format {
	case "", "text":
		return &logrus.TextFormatter{}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", l.Format)
	}
}

// NewLogger builds a logrus.Logger writing to stderr
func (l LogConfig) NewLogger() (*logrus.Logger, error) {
	level, err := l.ParseLevel()
	if err != nil {
		return nil, err
	}
	formatter, err := l.Formatter()
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(formatter)
	return logger, nil
}
