// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/epochcheck/epoch"
	"github.com/katalvlaran/epochcheck/epochfile"
	"github.com/katalvlaran/epochcheck/solver"
	"github.com/katalvlaran/epochcheck/unfolding"
)

// epochResult is one solved epoch in YAML output.
type epochResult struct {
	Epoch  string          `yaml:"epoch"`
	Values map[int]float64 `yaml:"values"`
}

func newSolveCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve every epoch of a YAML epoch sequence",
		Long: `Reads an epoch sequence (see package epochfile), solves the epochs in
dependency order with one persistent solver and prints the value of every
entry state.
Example) epochcheck solve model.yaml --linear-method lu`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.environment(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			results, err := solveFile(ctx, a.logger, env, args[0])
			if err != nil {
				return err
			}
			if asYAML {
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(results)
			}

			return printResults(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print results as YAML")

	return cmd
}

// solveFile loads path and runs it through the matching driver.
func solveFile(ctx context.Context, logger *zap.Logger, env solver.Environment, path string) ([]epochResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := epochfile.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	opts := []unfolding.Option[float64]{unfolding.WithLogger[float64](logger)}
	if lo, hi, ok := doc.Bounds(); ok {
		opts = append(opts, unfolding.WithBounds(lo, hi))
	}

	var (
		drv     *unfolding.Driver[float64]
		sources []unfolding.Source[float64]
	)
	switch doc.Kind {
	case epochfile.KindDTMC:
		cache := epoch.NewLinearCache[float64](nil, env)
		if sources, err = doc.Sources(cache.ProblemFormat()); err != nil {
			return nil, err
		}
		drv = unfolding.NewDeterministic(cache, opts...)
	default:
		cache := epoch.NewMinMaxCache[float64](nil, env)
		if sources, err = doc.Sources(solver.FixedPointSystem); err != nil {
			return nil, err
		}
		drv = unfolding.NewNonDeterministic(doc.OptimizationDirection(), cache, opts...)
	}

	store, err := drv.Run(ctx, sources)
	if err != nil {
		return nil, err
	}

	results := make([]epochResult, 0, store.Len())
	for _, id := range store.Solved() {
		states, _ := doc.EntryStates(string(id))
		values, _ := store.Result(id)
		r := epochResult{Epoch: string(id), Values: make(map[int]float64, len(states))}
		for i, s := range states {
			r.Values[s] = values[i]
		}
		results = append(results, r)
	}

	return results, nil
}

// printResults writes one aligned line per entry state.
func printResults(w io.Writer, results []epochResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EPOCH\tSTATE\tVALUE")
	for _, r := range results {
		states := make([]int, 0, len(r.Values))
		for s := range r.Values {
			states = append(states, s)
		}
		sort.Ints(states)
		for _, s := range states {
			fmt.Fprintf(tw, "%s\t%d\t%.6g\n", r.Epoch, s, r.Values[s])
		}
	}

	return tw.Flush()
}
