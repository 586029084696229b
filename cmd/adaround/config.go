package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/adaround/internal/quant"
)

// Config is the YAML quantization config passed with --config.
// Pointer fields distinguish "not set" from zero values; explicitly set
// flags take precedence over the file.
//
//	quant:
//	  n_bits: 4
//	  delta: [0.02, 0.03]
//	  zero_point: [8, 8]
//	mode: learned_hard_sigmoid
//	soft: false
//	seed: 42
type Config struct {
	Quant quant.Params `yaml:"quant"`

	Mode   *string `yaml:"mode"`
	Soft   *bool   `yaml:"soft"`
	Seed   *int64  `yaml:"seed"`
	Tensor string  `yaml:"tensor"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (Config, error) {
	//nolint:gosec // G304: config path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config bytes. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Quant = cfg.Quant.Normalize()
	return cfg, nil
}

// applyInputConfig applies config file defaults to shared flags that were
// not explicitly set.
func applyInputConfig(c *cli.Command, cfg Config, f *inputFlags) {
	if cfg.Tensor != "" && !c.IsSet("tensor") {
		f.tensorName = cfg.Tensor
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		f.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		f.logFormat = cfg.LogFormat
	}
}

// applyEvaluateConfig applies config file defaults to evaluate flags.
func applyEvaluateConfig(c *cli.Command, cfg Config, mode *string, soft *bool, seed *int64) {
	if cfg.Mode != nil && !c.IsSet("mode") {
		*mode = *cfg.Mode
	}
	if cfg.Soft != nil && !c.IsSet("soft") {
		*soft = *cfg.Soft
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
}
