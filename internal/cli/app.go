package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/FurniCut/internal/logging"
	"github.com/piwi3910/FurniCut/internal/model"
	"github.com/piwi3910/FurniCut/internal/project"
)

// app bundles what every command needs: the effective config and a logger.
type app struct {
	cfg    model.AppConfig
	logger *logging.Logger
}

// loadApp resolves the config from file, environment and flags, in
// increasing precedence, and opens the logger.
func loadApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := project.LoadAppConfig(path)
	if err != nil {
		return nil, err
	}
	project.ApplyEnv(&cfg)

	if f := cmd.Flags().Lookup("data-dir"); f != nil && f.Changed {
		cfg.DataDir = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-file"); f != nil && f.Changed {
		cfg.LogFile = f.Value.String()
	}
	cfg.Normalize()

	logger, err := logging.New(logging.ConfigFrom(cfg), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return &app{cfg: cfg, logger: logger}, nil
}

// dataDir is the configured sheet directory, or ~/.furnicut/sheets.
func (a *app) dataDir() string {
	if a.cfg.DataDir != "" {
		return a.cfg.DataDir
	}
	return project.DefaultDataDir()
}

// openStore opens the persistent sheet store.
func (a *app) openStore() (*project.FileStore, error) {
	return project.NewFileStore(a.dataDir())
}

func (a *app) close() {
	_ = a.logger.Close()
}
