package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/born-ml/adaround/internal/logger"
)

// inputFlags are shared by every command that builds a policy.
type inputFlags struct {
	weightsPath string
	tensorName  string
	configPath  string
	logLevel    string
	logFormat   string
}

func (f *inputFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "weights",
			Aliases:     []string{"w"},
			Usage:       "weight tensor file (.json or .safetensors)",
			Destination: &f.weightsPath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "tensor",
			Usage:       "tensor name inside a .safetensors file (default: the only tensor)",
			Destination: &f.tensorName,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "quantization config (YAML)",
			Destination: &f.configPath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &f.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &f.logFormat,
		},
	}
}

// load reads the config, applies shared overrides and attaches a logger to ctx.
func (f *inputFlags) load(ctx context.Context, c *cli.Command) (context.Context, Config, error) {
	cfg, err := LoadConfig(f.configPath)
	if err != nil {
		return ctx, Config{}, err
	}
	applyInputConfig(c, cfg, f)

	log := logger.ForFormat(os.Stderr, f.logFormat, logger.ParseLevel(f.logLevel))
	return logger.WithContext(ctx, log), cfg, nil
}
