package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/heal-research/eqnorm/internal/pipeline"
)

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize SRC DST",
		Short: "Normalize one file",
		Long: `Normalizes SRC line by line and writes each new canonical form to DST.
DST is created or truncated. Use "-" for standard input or output.

Example:
  eqnorm normalize base_functions.txt base_functions_normalized.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			norm, err := a.normalizer("")
			if err != nil {
				return err
			}
			seen, err := a.newSet(cmd.Context(), dst)
			if err != nil {
				return err
			}
			defer seen.Close()

			p := pipeline.NewProcessor(norm, a.logger, a.cfg.ProgressEvery)
			a.logger.Info("normalizing file", zap.String("input", src), zap.String("output", dst))
			st, err := p.File(cmd.Context(), src, dst, seen)
			if err != nil {
				return err
			}
			a.logger.Info("file done", zap.Object("stats", st))
			return nil
		},
	}
}
