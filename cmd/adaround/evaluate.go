package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/born-ml/adaround/adaround"
	"github.com/born-ml/adaround/backend/cpu"
	"github.com/born-ml/adaround/internal/logger"
	"github.com/born-ml/adaround/tensor"
)

type evaluateOptions struct {
	weightsPath string
	tensorName  string
	params      adaround.Params
	mode        adaround.RoundMode
	soft        bool
	seed        int64
	outPath     string
}

func evaluateCmd() *cli.Command {
	var (
		in      inputFlags
		mode    string
		soft    bool
		seed    int64
		outPath string
	)

	return &cli.Command{
		Name:  "evaluate",
		Usage: "Round a weight tensor and report the reconstruction error",
		Flags: append(in.flags(),
			&cli.StringFlag{
				Name:        "mode",
				Usage:       "rounding mode (nearest, nearest_ste, stochastic, learned_hard_sigmoid)",
				Value:       string(adaround.LearnedHardSigmoid),
				Destination: &mode,
			},
			&cli.BoolFlag{
				Name:        "soft",
				Usage:       "use soft targets in learned mode",
				Destination: &soft,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "seed for stochastic rounding (0 draws a random seed)",
				Destination: &seed,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "write quantized and decision tensors (.json or .safetensors)",
				Destination: &outPath,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cfg, err := in.load(ctx, c)
			if err != nil {
				return err
			}
			applyEvaluateConfig(c, cfg, &mode, &soft, &seed)

			m, err := adaround.ParseRoundMode(mode)
			if err != nil {
				return err
			}
			return runEvaluate(ctx, c.Root().Writer, evaluateOptions{
				weightsPath: in.weightsPath,
				tensorName:  in.tensorName,
				params:      cfg.Quant,
				mode:        m,
				soft:        soft,
				seed:        seed,
				outPath:     outPath,
			})
		},
	}
}

func runEvaluate(ctx context.Context, w io.Writer, opts evaluateOptions) error {
	log := logger.FromContext(ctx)

	weights, err := loadWeights(opts.weightsPath, opts.tensorName)
	if err != nil {
		return err
	}

	backend := cpu.New()
	x, err := tensor.FromSlice(weights.Data, tensor.Shape(weights.Shape), backend)
	if err != nil {
		return err
	}

	policyOpts := []adaround.Option{adaround.WithLogger(log)}
	if opts.seed != 0 {
		policyOpts = append(policyOpts, adaround.WithRand(rand.New(rand.NewPCG(uint64(opts.seed), 0))))
	}
	if opts.mode != adaround.LearnedHardSigmoid {
		policyOpts = append(policyOpts, adaround.WithEvalMode(opts.mode))
	}

	policy, err := adaround.New(opts.params, x, backend, policyOpts...)
	if err != nil {
		return err
	}
	policy.SetSoftTargets(opts.soft)

	out, err := policy.Evaluate(x)
	if err != nil {
		return err
	}

	s := summarize(x.Data(), out.Data())
	log.Info("evaluated policy", "policy", policy.ID(), "mode", policy.Mode(), "soft", policy.SoftTargets())

	_, _ = fmt.Fprintf(w, "mode:           %s\n", policy.Mode())
	if policy.Mode() == adaround.LearnedHardSigmoid {
		_, _ = fmt.Fprintf(w, "soft targets:   %t\n", policy.SoftTargets())
	}
	_, _ = fmt.Fprintf(w, "shape:          %v\n", policy.Shape())
	_, _ = fmt.Fprintf(w, "elements:       %d\n", s.Elements)
	_, _ = fmt.Fprintf(w, "mean abs error: %.6g\n", s.MeanAbsError)
	_, _ = fmt.Fprintf(w, "max abs error:  %.6g\n", s.MaxAbsError)
	_, _ = fmt.Fprintf(w, "rounded up:     %.4f\n", s.RoundedUp)
	_, _ = fmt.Fprintf(w, "rounded down:   %.4f\n", s.RoundedDown)

	if opts.outPath == "" {
		return nil
	}
	err = writeOutputs(opts.outPath, map[string]*tensor.RawTensor{
		"quantized": out.Raw(),
		"alpha":     policy.Alpha().Tensor().Raw(),
	}, map[string]string{
		"policy": policy.ID(),
		"mode":   string(policy.Mode()),
		"soft":   strconv.FormatBool(policy.SoftTargets()),
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", opts.outPath, err)
	}
	log.Debug("wrote output", "path", opts.outPath)
	return nil
}
