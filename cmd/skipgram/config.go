package main

import (
	"os"

	"github.com/gridl/wordembed"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

// Config holds the settings for a training run.
type Config struct {
	Corpus    string `yaml:"corpus"`
	Output    string `yaml:"output"`
	VocabSize int    `yaml:"vocab_size"`
	Dim       int    `yaml:"dim"`
	Window    int    `yaml:"window"`
	BatchSize int    `yaml:"batch_size"`
	Shuffle   int    `yaml:"shuffle_buffer"`

	// Objective is "nce" or "hierarchical".
	Objective  string  `yaml:"objective"`
	NumSampled int     `yaml:"num_sampled"`
	Sampler    string  `yaml:"sampler"` // "log_uniform" or "unigram"
	Rate       float64 `yaml:"rate"`
	Epochs     int     `yaml:"epochs"`
	Seed       int64   `yaml:"seed"`

	Probes      []string `yaml:"probes"`
	NumNearest  int      `yaml:"num_nearest"`
	LogLevel    string   `yaml:"log_level"`
	MetricsAddr string   `yaml:"metrics_addr"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		Output:     "embedding.bin",
		VocabSize:  50000,
		Dim:        128,
		Window:     1,
		BatchSize:  128,
		Shuffle:    10000,
		Objective:  "nce",
		NumSampled: 64,
		Sampler:    "log_uniform",
		Rate:       1.0,
		Epochs:     1,
		Seed:       1,
		NumNearest: 8,
		LogLevel:   "info",
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return errors.Wrapf(wordembed.ErrInvalidArgument, format, args...)
	}
	switch {
	case c.Corpus == "":
		return invalid("no corpus specified")
	case c.VocabSize < 2:
		return invalid("vocab_size %d must be at least 2", c.VocabSize)
	case c.Dim < 1:
		return invalid("dim %d must be positive", c.Dim)
	case c.Window < 1:
		return invalid("window %d must be positive", c.Window)
	case c.BatchSize < 1:
		return invalid("batch_size %d must be positive", c.BatchSize)
	case c.Rate <= 0:
		return invalid("rate %f must be positive", c.Rate)
	case c.Epochs < 0:
		return invalid("epochs %d must not be negative", c.Epochs)
	}
	switch c.Objective {
	case "nce":
		if c.NumSampled < 1 {
			return invalid("num_sampled %d must be positive", c.NumSampled)
		}
		if c.Sampler != "log_uniform" && c.Sampler != "unigram" {
			return invalid("unknown sampler %q", c.Sampler)
		}
	case "hierarchical":
	default:
		return invalid("unknown objective %q", c.Objective)
	}
	return nil
}
