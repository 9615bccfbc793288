package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/schedule"
)

// Open returns the repository selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (schedule.Repository, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
		repo, err := NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendRedis:
		repo, err := DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendPostgres:
		repo, err := DialPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
