// Command adaround rounds weight tensors onto a quantization grid and
// inspects the decision tensors of adaptive rounding policies.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "adaround",
		Usage: "Adaptive rounding of weights to a uniform quantization grid",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			evaluateCmd(),
			inspectCmd(),
			versionCmd(),
		},
	}
}
