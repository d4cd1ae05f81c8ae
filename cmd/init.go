package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/config"
	"github.com/twiced-technology-gmbh/deadliner/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a deadliner directory",
	Long: `Creates a .deadliner directory with config.yml in the current directory
(or in --dir). Commands run below it use its task list.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("backend", config.BackendFile,
		"storage backend ("+strings.Join(config.Backends, ", ")+")")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.BoardAlreadyExists, "already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	backend, _ := cmd.Flags().GetString("backend")
	cfg, err := config.Init(absDir, backend)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return clierr.New(clierr.InvalidInput, err.Error())
		}
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     absDir,
			"config":  cfg.ConfigPath(),
			"backend": cfg.Storage.Backend,
			"data":    cfg.DataPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized deadliner in %s", absDir)
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Backend: %s", cfg.Storage.Backend)
	if cfg.DataPath() != "" {
		output.Messagef(os.Stdout, "  Data:    %s", cfg.DataPath())
	}
	return nil
}
