package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/heal-research/eqnorm/internal/config"
	"github.com/heal-research/eqnorm/internal/dedupe"
	"github.com/heal-research/eqnorm/internal/logging"
	"github.com/heal-research/eqnorm/internal/normalize"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger

	mu    sync.Mutex
	index *dedupe.Index
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "eqnorm",
		Short: "Canonicalize equation files for deduplication",
		Long: `eqnorm reads files with one expression per line, rewrites every line
into a canonical form and writes the first occurrence of each form.

Numeric literals and parameter symbols are folded into a placeholder
according to a profile, so structurally identical equations collapse
to the same line. Lines that do not parse are logged and skipped.

Built-in profiles:
  generated    collapse free coefficients into p, drop forms with "-"
  enumerated   fold 2..9 and a0..a4 into a placeholder printed as 0

Settings come from flags, EQNORM_* environment variables and an
optional .eqnorm.yml in the working directory.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default .eqnorm.yml)")
	pf.String("profile", "", "built-in profile name (default generated; enumerated for batch)")
	pf.String("profile-file", "", "YAML profile file, overrides --profile")
	pf.Int("progress-every", 0, "log progress every N parsed lines (0 uses the profile's interval, -1 disables)")
	pf.Int("workers", runtime.NumCPU(), "files processed concurrently by batch")
	pf.String("index", "", "SQLite index of emitted forms shared across runs")
	pf.Bool("index-reset", false, "forget the forms indexed for an output before writing it")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "json", "log format (json, console)")

	for key, flag := range map[string]string{
		"profile":        "profile",
		"profile_file":   "profile-file",
		"progress_every": "progress-every",
		"workers":        "workers",
		"index":          "index",
		"index_reset":    "index-reset",
		"log.level":      "log-level",
		"log.format":     "log-format",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newNormalizeCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newInspectCmd(a),
		newProfilesCmd(a),
		newFormsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.logger, _ = logging.WithRun(logger.With(zap.String("cmd", cmd.Name())))
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	var err error
	if a.index != nil {
		err = a.index.Close()
		a.index = nil
	}
	_ = a.logger.Sync()
	return err
}

// normalizer loads the configured profile, or fallback when none is set.
func (a *app) normalizer(fallback string) (*normalize.Normalizer, error) {
	p, err := a.cfg.LoadProfile(fallback)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("profile loaded", zap.String("profile", p.Name))
	return normalize.New(p), nil
}

// newSet returns the dedupe set for an output file: a scope of the index
// when one is configured, otherwise an in-memory set.
func (a *app) newSet(ctx context.Context, output string) (dedupe.Set, error) {
	if a.cfg.Index == "" {
		return dedupe.NewMemorySet(), nil
	}
	ix, err := a.openIndex(ctx)
	if err != nil {
		return nil, err
	}
	name := filepath.Clean(output)
	if a.cfg.IndexReset {
		if err := ix.Reset(ctx, name); err != nil {
			return nil, err
		}
	}
	scope, err := ix.Scope(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("index scope: %w", err)
	}
	a.logger.Debug("index scope", zap.String("scope", name), zap.Int("known", scope.Len()))
	return scope, nil
}

func (a *app) openIndex(ctx context.Context) (*dedupe.Index, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index == nil {
		if a.cfg.Index == "" {
			return nil, fmt.Errorf("no index configured (use --index or EQNORM_INDEX)")
		}
		ix, err := dedupe.OpenIndex(ctx, a.cfg.Index)
		if err != nil {
			return nil, err
		}
		a.index = ix
		a.logger.Info("index opened", zap.String("path", ix.Path()))
	}
	return a.index, nil
}
