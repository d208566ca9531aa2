package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/heal-research/eqnorm/internal/dedupe"
)

// Placeholder is replaced by the complexity number in batch path templates.
const Placeholder = "{n}"

// Expand substitutes n into a path template.
func Expand(tmpl string, n int) string {
	return strings.ReplaceAll(tmpl, Placeholder, strconv.Itoa(n))
}

// SetFactory returns the dedupe set for one output path.
type SetFactory func(ctx context.Context, output string) (dedupe.Set, error)

// Batch processes the files Input/Output expand to for every n in
// [From, To].
type Batch struct {
	Processor *Processor
	Logger    *zap.Logger

	From, To      int
	Input, Output string
	Workers       int

	// Cumulative processes files in order with one shared set; output n
	// holds every form emitted for inputs From..n.
	Cumulative bool

	// NewSet defaults to an in-memory set per file. Cumulative runs always
	// use memory.
	NewSet SetFactory
}

// FileResult reports one processed file.
type FileResult struct {
	N      int
	Input  string
	Output string
	Stats  Stats
}

func (b *Batch) validate() error {
	if b.Processor == nil {
		return errors.New("batch: no processor")
	}
	if b.From > b.To {
		return fmt.Errorf("batch: from %d is greater than to %d", b.From, b.To)
	}
	if b.From != b.To {
		if !strings.Contains(b.Input, Placeholder) || !strings.Contains(b.Output, Placeholder) {
			return fmt.Errorf("batch: input and output templates need %s for a range", Placeholder)
		}
	}
	if b.Input == b.Output {
		return errors.New("batch: input and output templates are identical")
	}
	return nil
}

func (b *Batch) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Run processes the range. Results are ordered by n.
func (b *Batch) Run(ctx context.Context) ([]FileResult, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if b.Cumulative {
		return b.runCumulative(ctx)
	}
	return b.runEach(ctx)
}

func (b *Batch) runEach(ctx context.Context) ([]FileResult, error) {
	newSet := b.NewSet
	if newSet == nil {
		newSet = func(context.Context, string) (dedupe.Set, error) { return dedupe.NewMemorySet(), nil }
	}

	results := make([]FileResult, b.To-b.From+1)
	g, gctx := errgroup.WithContext(ctx)
	if b.Workers > 0 {
		g.SetLimit(b.Workers)
	}
	for i := range results {
		n := b.From + i
		res := &results[i]
		res.N, res.Input, res.Output = n, Expand(b.Input, n), Expand(b.Output, n)
		g.Go(func() error {
			seen, err := newSet(gctx, res.Output)
			if err != nil {
				return err
			}
			defer seen.Close()

			log := b.logger().With(zap.Int("n", n), zap.String("input", res.Input))
			log.Info("normalizing file", zap.String("output", res.Output))
			st, err := b.Processor.File(gctx, res.Input, res.Output, seen)
			res.Stats = st
			if err != nil {
				return fmt.Errorf("n=%d: %w", n, err)
			}
			log.Info("file done", zap.Object("stats", st))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (b *Batch) runCumulative(ctx context.Context) ([]FileResult, error) {
	seen := dedupe.NewMemorySet()
	var acc bytes.Buffer
	var results []FileResult

	for n := b.From; n <= b.To; n++ {
		res := FileResult{N: n, Input: Expand(b.Input, n), Output: Expand(b.Output, n)}
		log := b.logger().With(zap.Int("n", n), zap.String("input", res.Input))
		log.Info("normalizing file", zap.String("output", res.Output), zap.Bool("cumulative", true))

		in, err := os.Open(res.Input)
		if err != nil {
			return results, fmt.Errorf("n=%d: open input: %w", n, err)
		}
		st, err := b.Processor.Run(ctx, in, &acc, seen)
		in.Close()
		res.Stats = st
		if err != nil {
			return results, fmt.Errorf("n=%d: %w", n, err)
		}
		if err := os.WriteFile(res.Output, acc.Bytes(), 0o644); err != nil {
			return results, fmt.Errorf("n=%d: write output: %w", n, err)
		}
		log.Info("file done", zap.Object("stats", st), zap.Int("total_forms", seen.Len()))
		results = append(results, res)
	}
	return results, nil
}

// Total sums the stats of all results.
func Total(results []FileResult) Stats {
	var t Stats
	for _, r := range results {
		t = t.Add(r.Stats)
	}
	return t
}
