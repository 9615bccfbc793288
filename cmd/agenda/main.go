package main

import (
	"context"
	"fmt"
	"os"

	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/db"
	"github.com/javiermolinar/agenda/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	repo, err := db.Open(context.Background(), cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	app := ui.NewApp(repo, cfg)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
