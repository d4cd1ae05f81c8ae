// Package cmd implements the deadliner CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/activity"
	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/config"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
	"github.com/twiced-technology-gmbh/deadliner/internal/store"
	"github.com/twiced-technology-gmbh/deadliner/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "deadliner",
	Short: "Track tasks against their deadlines",
	Long: `deadliner keeps a list of tasks, each with a deadline, and shows how much
of the time between creation and deadline has already elapsed.
Run deadliner without arguments to open the interactive list.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to deadliner directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	cliErr := clierr.From(err)
	if outputFormat() == output.FormatJSON {
		output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cliErr.ExitCode())
}

// resolveDir returns the deadliner directory: --dir, then the nearest
// .deadliner above the working directory, then ~/.config/deadliner.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}
	return config.HomeDir()
}

// loadConfig finds and loads the config. The per-user fallback directory is
// created with defaults the first time it is needed.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, config.ErrInvalid) {
		return nil, clierr.New(clierr.InvalidInput, err.Error()).
			WithDetails(map[string]any{"config": filepath.Join(dir, config.ConfigFileName)})
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}

	homeDir, homeErr := config.HomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, clierr.New(clierr.BoardNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	return config.Init(homeDir, config.BackendFile)
}

// tracker bundles what every task command needs.
type tracker struct {
	cfg   *config.Config
	store *store.Store
	lc    *task.Lifecycle
	loc   *time.Location
}

// openTracker loads the config and opens its store with the activity log and
// corruption warnings attached.
func openTracker() (*tracker, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	s, err := store.Open(cfg.Storage.Backend, cfg.DataPath())
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	logger := activity.NewLogger(cfg.Dir())
	s.SetDefaultDeadline(cfg.DefaultDeadlineDuration())
	s.OnCorrupt(func(err error) {
		fmt.Fprintf(os.Stderr, "Warning: repaired stored tasks: %v\n", err)
		logger.Corrupt(err)
	})

	loc := cfg.Location()
	lc := task.NewLifecycle(s)
	lc.SetLocation(loc)
	lc.SetLogger(logger.Mutation)

	output.SetProgressStyle(cfg.ProgressWidth(), cfg.TUI.GradientStart, cfg.TUI.GradientEnd, cfg.TUI.ExpiredColor)

	return &tracker{cfg: cfg, store: s, lc: lc, loc: loc}, nil
}

// Close releases the store.
func (t *tracker) Close() {
	_ = t.store.Close()
}

// row loads the task with id and builds its row at the current time.
func (t *tracker) row(id int64) (board.Row, error) {
	found, ok, err := t.store.FindByID(id)
	if err != nil {
		return board.Row{}, err
	}
	if !ok {
		return board.Row{}, task.NotFound(id)
	}
	return board.Row{Task: found, Progress: task.Compute(found, time.Now())}, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// parseIDs splits a comma-separated ID string into deduplicated IDs.
func parseIDs(arg string) ([]int64, error) {
	return board.ParseIDs(arg)
}

// runBatch executes fn for each ID and collects results. Returns a SilentError
// with exit code 1 if any operation failed (after outputting results).
func runBatch(ids []int64, fn func(int64) error) error {
	results := make([]output.BatchResult, 0, len(ids))
	anyFailed := false

	for _, id := range ids {
		if err := fn(id); err != nil {
			anyFailed = true
			cliErr := clierr.From(err)
			results = append(results, output.BatchResult{ID: id, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			continue
		}
		results = append(results, output.BatchResult{ID: id, OK: true})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task #%d: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(ids))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
