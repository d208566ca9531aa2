// Package pipeline runs the normalizer over line-oriented equation files.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/heal-research/eqnorm"
	"github.com/heal-research/eqnorm/internal/dedupe"
	"github.com/heal-research/eqnorm/internal/normalize"
)

const maxLineSize = 16 << 20

// Stats counts what happened to the lines of one run.
type Stats struct {
	Lines      int `json:"lines"`
	Parsed     int `json:"parsed"`
	Written    int `json:"written"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
	Failed     int `json:"failed"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		Lines:      s.Lines + o.Lines,
		Parsed:     s.Parsed + o.Parsed,
		Written:    s.Written + o.Written,
		Duplicates: s.Duplicates + o.Duplicates,
		Rejected:   s.Rejected + o.Rejected,
		Failed:     s.Failed + o.Failed,
	}
}

func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("lines", s.Lines)
	enc.AddInt("parsed", s.Parsed)
	enc.AddInt("written", s.Written)
	enc.AddInt("duplicates", s.Duplicates)
	enc.AddInt("rejected", s.Rejected)
	enc.AddInt("failed", s.Failed)
	return nil
}

// Processor normalizes a stream line by line, keeping the first occurrence
// of every canonical form.
type Processor struct {
	norm          *normalize.Normalizer
	logger        *zap.Logger
	progressEvery int
}

// NewProcessor builds a Processor. A progressEvery of zero falls back to
// the profile's interval; a negative value disables progress logging.
func NewProcessor(norm *normalize.Normalizer, logger *zap.Logger, progressEvery int) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progressEvery == 0 {
		progressEvery = norm.Profile().ProgressEvery
	}
	return &Processor{norm: norm, logger: logger, progressEvery: progressEvery}
}

// Run reads r, writes new canonical forms to w and records them in seen.
// Unparsable lines are logged and skipped; any other error aborts the run.
// Output is flushed on every return; a staging set is committed only when
// the run and the flush succeed.
func (p *Processor) Run(ctx context.Context, r io.Reader, w io.Writer, seen dedupe.Set) (Stats, error) {
	var st Stats
	bw := bufio.NewWriter(w)
	err := p.scan(ctx, r, bw, seen, &st)
	if ferr := bw.Flush(); err == nil && ferr != nil {
		err = fmt.Errorf("write output: %w", ferr)
	}
	if stager, ok := seen.(dedupe.Stager); ok {
		if err != nil {
			if rerr := stager.Rollback(); rerr != nil {
				p.logger.Warn("rollback failed", zap.Error(rerr))
			}
		} else {
			err = stager.Commit(ctx)
		}
	}
	return st, err
}

func (p *Processor) scan(ctx context.Context, r io.Reader, bw *bufio.Writer, seen dedupe.Set, st *Stats) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		st.Lines++
		if strings.TrimSpace(line) == "" {
			continue
		}

		form, keep, err := p.norm.Line(line)
		if err != nil {
			var perr *eqnorm.ParseError
			if errors.As(err, &perr) {
				st.Failed++
				p.logger.Warn("could not parse line",
					zap.Int("line_no", st.Lines),
					zap.String("line", line),
					zap.Error(err))
				continue
			}
			return fmt.Errorf("line %d: %w", st.Lines, err)
		}

		st.Parsed++
		if p.progressEvery > 0 && st.Parsed%p.progressEvery == 0 {
			p.logger.Info("progress", zap.Int("parsed", st.Parsed), zap.Int("written", st.Written))
		}
		if !keep {
			st.Rejected++
			continue
		}

		added, err := seen.Add(ctx, form)
		if err != nil {
			return err
		}
		if !added {
			st.Duplicates++
			continue
		}
		if _, err := bw.WriteString(form); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		st.Written++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// File normalizes src into dst, creating or truncating dst. "-" stands
// for standard input or standard output.
func (p *Processor) File(ctx context.Context, src, dst string, seen dedupe.Set) (Stats, error) {
	in := io.Reader(os.Stdin)
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return Stats{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	if dst == "-" {
		return p.Run(ctx, in, os.Stdout, seen)
	}
	out, err := os.Create(dst)
	if err != nil {
		return Stats{}, fmt.Errorf("create output: %w", err)
	}
	st, err := p.Run(ctx, in, out, seen)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return st, err
}
