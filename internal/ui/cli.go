// Package ui implements the agenda command line.
package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/editor"
	"github.com/javiermolinar/agenda/internal/logging"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo     schedule.Repository
	config   *config.Config
	root     *cobra.Command
	logger   *zap.Logger
	debug    bool   // Enable debug logging
	provider string // Overrides the configured provider identity
}

// NewApp creates a new CLI application with the given repository and config.
func NewApp(repo schedule.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, logger: zap.NewNop()}

	a.root = &cobra.Command{
		Use:   "agenda",
		Short: "A weekly availability editor",
		Long: `Agenda manages the weekly hours you are available for appointments.

Draw availability blocks per weekday on a 24h grid, mark them online or
in person, and see how many appointments fit in each block.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initLogger(cmd.Name() == "agenda")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(sess, a.config, a.logger)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().StringVar(&a.provider, "provider", "", "Provider identity used as the storage key (overrides config)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.clearCmd())
	a.root.AddCommand(a.settingsCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agenda %s (commit: %s)\n", Version, Commit)
		},
	}
}

// initLogger builds the logger from flags and config. The TUI never logs to
// stderr since it owns the terminal.
func (a *App) initLogger(interactive bool) error {
	logger, err := logging.New(logging.Options{
		Level:  a.config.Log.Level,
		File:   a.config.Log.File,
		Debug:  a.debug,
		Stderr: !interactive,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// key returns the storage key, preferring --provider over the config.
func (a *App) key() string {
	if a.provider != "" {
		return schedule.KeyFor(a.provider)
	}
	return a.config.Key()
}

// openSession loads the schedule for the current key.
func (a *App) openSession(ctx context.Context) (*editor.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := editor.Open(ctx, a.repo, a.key(), a.config.Settings(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("opening schedule: %w", err)
	}
	return sess, nil
}

// SetOutput redirects command output, used by tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// SetArgs overrides the command line arguments, used by tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close flushes the logger and closes the repository.
func (a *App) Close() error {
	_ = a.logger.Sync()
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
