// Command knightswap reads a Knight Swap instance file and searches for
// a shortest sequence of knight moves swapping the white and black
// parties, printing the result per spec.md §6/§8.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vxm/knightswap/internal/config"
	"github.com/vxm/knightswap/internal/coordinator"
	"github.com/vxm/knightswap/internal/instance"
	"github.com/vxm/knightswap/internal/ioformat"
	"github.com/vxm/knightswap/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "knightswap <instance-file>",
		Short: "Solve the Knight Swap puzzle via parallel branch-and-bound search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args[0])
		},
	}

	config.Bind(cmd.Flags(), v)
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, instancePath string) error {
	cfg, err := config.Load(v, instancePath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log := telemetry.New(os.Stderr, level, cfg.LogFormat)
	defer log.Close()

	f, err := os.Open(instancePath)
	if err != nil {
		return fmt.Errorf("opening instance file: %w", err)
	}
	defer f.Close()

	parsed, err := ioformat.ReadInstance(f)
	if err != nil {
		return fmt.Errorf("parsing instance file: %w", err)
	}

	ins, err := instance.Build(parsed.NCols, parsed.NRows, parsed.K, parsed.White, parsed.Black)
	if err != nil {
		return fmt.Errorf("building instance: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result := coordinator.Run(ctx, ins, coordinator.Options{
		Workers:                   cfg.Workers,
		SplitFactor:               cfg.SplitFactor,
		ThreadsPerWorker:          cfg.ThreadsPerWorker,
		FallbackCeilingMultiplier: cfg.FallbackCeilingMultiplier,
		MaxCeilingDoublings:       cfg.MaxCeilingDoublings,
		Logger:                    log,
	})

	return ioformat.WriteSolution(cmd.OutOrStdout(), ins, result.Found, result.Moves, result.IterationCount)
}
