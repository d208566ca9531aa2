package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/heal-research/eqnorm/internal/pipeline"
)

const (
	batchProfile            = "enumerated"
	defaultInput            = "core_maths/unique_equations_{n}.txt"
	defaultOutput           = "core_maths/unique_equations_{n}_normalized.txt"
	defaultCumulativeOutput = "core_maths/unique_equations_{n}_cum_normalized.txt"
)

type batchOptions struct {
	from, to      int
	input, output string
	cumulative    bool
}

func newBatchCmd(a *app) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Normalize a range of templated files",
		Long: `Normalizes every file the input template expands to for n in
[--from, --to]; "{n}" in a template is replaced by the number.

Without --cumulative each file is deduplicated on its own and files run
concurrently. With --cumulative files run in order sharing one set, and
output n holds every form emitted for inputs from..n.

Unless a profile is configured, batch uses the enumerated profile.

Example:
  eqnorm batch --from 5 --to 10
  eqnorm batch --profile generated --input eqs_{n}.txt --output out_{n}.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			norm, err := a.normalizer(batchProfile)
			if err != nil {
				return err
			}
			output := opts.output
			if output == "" {
				output = defaultOutput
				if opts.cumulative {
					output = defaultCumulativeOutput
				}
			}
			if opts.cumulative && a.cfg.Index != "" {
				a.logger.Warn("index is ignored in cumulative mode")
			}

			b := &pipeline.Batch{
				Processor:  pipeline.NewProcessor(norm, a.logger, a.cfg.ProgressEvery),
				Logger:     a.logger,
				From:       opts.from,
				To:         opts.to,
				Input:      opts.input,
				Output:     output,
				Workers:    a.cfg.Workers,
				Cumulative: opts.cumulative,
				NewSet:     a.newSet,
			}
			results, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}

			names := make([]string, len(results))
			for i, r := range results {
				names[i] = r.Output
			}
			a.logger.Info("batch done",
				zap.Int("files", len(results)),
				zap.String("outputs", strings.Join(names, ",")),
				zap.Object("stats", pipeline.Total(results)))
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.from, "from", 10, "first complexity n")
	f.IntVar(&opts.to, "to", 10, "last complexity n")
	f.StringVar(&opts.input, "input", defaultInput, "input path template")
	f.StringVar(&opts.output, "output", "", "output path template (default derived from --cumulative)")
	f.BoolVar(&opts.cumulative, "cumulative", false, "accumulate forms across the range")
	return cmd
}
