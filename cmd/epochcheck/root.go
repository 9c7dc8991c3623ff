// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/epochcheck/solver"
)

const defaultTimeout = 5 * time.Minute

// app holds the flag values shared by all subcommands.
type app struct {
	envFile string
	verbose bool
	timeout time.Duration

	linearMethod  string
	minMaxMethod  string
	precision     float64
	relative      bool
	maxIterations int

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "epochcheck",
		Short:         "epochcheck - per-epoch solving of reward-bounded DTMCs and MDPs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env", "", "YAML solver environment file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log every epoch and solver build")
	pf.DurationVar(&a.timeout, "timeout", defaultTimeout, "Abort the run after this duration")
	pf.StringVar(&a.linearMethod, "linear-method", "", "Override the linear method (power, jacobi, lu, interval)")
	pf.StringVar(&a.minMaxMethod, "minmax-method", "", "Override the min/max method (value-iteration, policy-iteration, interval-iteration)")
	pf.Float64Var(&a.precision, "precision", 0, "Override the convergence precision")
	pf.BoolVar(&a.relative, "relative", false, "Use relative convergence checks")
	pf.IntVar(&a.maxIterations, "max-iterations", 0, "Override the iteration cap")

	root.AddCommand(newSolveCmd(a), newEnvCmd(a))

	return root
}

// newLogger logs warnings to stderr, or everything in development format
// when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"

	return cfg.Build()
}

// environment loads --env (or the defaults) and applies flag overrides.
func (a *app) environment(cmd *cobra.Command) (solver.Environment, error) {
	env := solver.DefaultEnvironment()
	if a.envFile != "" {
		f, err := os.Open(a.envFile)
		if err != nil {
			return env, err
		}
		defer f.Close()
		if env, err = solver.LoadEnvironment(f); err != nil {
			return env, fmt.Errorf("%s: %w", a.envFile, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("linear-method") {
		env.LinearMethod = solver.LinearMethod(a.linearMethod)
	}
	if flags.Changed("minmax-method") {
		env.MinMaxMethod = solver.MinMaxMethod(a.minMaxMethod)
	}
	if flags.Changed("precision") {
		env.Precision = a.precision
	}
	if flags.Changed("relative") {
		env.Relative = a.relative
	}
	if flags.Changed("max-iterations") {
		env.MaxIterations = a.maxIterations
	}
	if err := env.Validate(); err != nil {
		return env, err
	}
	if a.logger != nil {
		solver.WithLogger(a.logger)(&env)
	}

	return env, nil
}
