package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/born-ml/adaround/adaround"
	"github.com/born-ml/adaround/backend/cpu"
	"github.com/born-ml/adaround/internal/logger"
	"github.com/born-ml/adaround/tensor"
)

func inspectCmd() *cli.Command {
	var in inputFlags

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show the decision tensor a learned policy starts from",
		Flags: in.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cfg, err := in.load(ctx, c)
			if err != nil {
				return err
			}
			return runInspect(ctx, c.Root().Writer, in.weightsPath, in.tensorName, cfg.Quant)
		},
	}
}

func runInspect(ctx context.Context, w io.Writer, weightsPath, tensorName string, params adaround.Params) error {
	weights, err := loadWeights(weightsPath, tensorName)
	if err != nil {
		return err
	}

	backend := cpu.New()
	x, err := tensor.FromSlice(weights.Data, tensor.Shape(weights.Shape), backend)
	if err != nil {
		return err
	}

	policy, err := adaround.New(params, x, backend, adaround.WithLogger(logger.FromContext(ctx)))
	if err != nil {
		return err
	}

	p := policy.Params()
	d := describeDecisions(
		policy.Alpha().Tensor().Data(),
		policy.HardTargets().Data(),
		policy.SoftTargetsValue().Data(),
	)

	_, _ = fmt.Fprintf(w, "policy:         %s\n", policy.ID())
	_, _ = fmt.Fprintf(w, "shape:          %v\n", policy.Shape())
	_, _ = fmt.Fprintf(w, "n_bits:         %d (%d levels)\n", p.NBits, p.NLevels)
	if len(p.Delta) == 1 {
		_, _ = fmt.Fprintf(w, "delta:          %g\n", p.Delta[0])
		_, _ = fmt.Fprintf(w, "zero point:     %g\n", p.ZeroPoint[0])
	} else {
		_, _ = fmt.Fprintf(w, "delta:          per-channel (%d)\n", len(p.Delta))
	}
	_, _ = fmt.Fprintf(w, "alpha range:    [%.4g, %.4g]\n", d.Min, d.Max)
	_, _ = fmt.Fprintf(w, "alpha mean:     %.4g\n", d.Mean)
	_, _ = fmt.Fprintf(w, "non-finite:     %d\n", d.NonFinite)
	_, _ = fmt.Fprintf(w, "hard round up:  %.4f\n", d.HardUp)
	_, _ = fmt.Fprintf(w, "soft mean:      %.4f\n", d.SoftMean)
	return nil
}
