package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/heal-research/eqnorm/internal/dedupe"
	"github.com/heal-research/eqnorm/internal/pipeline"
	"github.com/heal-research/eqnorm/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch SRC DST",
		Short: "Normalize a file and again whenever it changes",
		Long: `Normalizes SRC into DST, then watches SRC and rewrites DST after every
change. Each run starts from an empty set; the index is not used.
Stops on interrupt.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			norm, err := a.normalizer("")
			if err != nil {
				return err
			}
			p := pipeline.NewProcessor(norm, a.logger, a.cfg.ProgressEvery)

			w := watch.New(src, a.cfg.Watch.Debounce, a.logger, func(ctx context.Context) error {
				start := time.Now()
				st, err := p.File(ctx, src, dst, dedupe.NewMemorySet())
				if err != nil {
					return err
				}
				a.logger.Info("file done", zap.Object("stats", st), zap.Duration("took", time.Since(start)))
				return nil
			})
			a.logger.Info("watching", zap.String("input", src), zap.String("output", dst))
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().Duration("debounce", 200*time.Millisecond, "quiet period before re-running")
	_ = a.v.BindPFlag("watch.debounce", cmd.Flags().Lookup("debounce"))
	return cmd
}
