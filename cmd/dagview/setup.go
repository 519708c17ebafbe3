package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/dagview"
	"github.com/aretw0/dagview/internal/config"
	"github.com/aretw0/dagview/internal/logging"
	"github.com/aretw0/dagview/pkg/adapters/file"
	"github.com/aretw0/dagview/pkg/adapters/redis"
	"github.com/spf13/cobra"
)

// loadConfig reads --config and applies the flag overrides the command defines.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("redis"); f != nil && f.Changed {
		cfg.Redis.Addr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("store-dir"); f != nil && f.Changed {
		cfg.StoreDir = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.Log.Level = f.Value.String()
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.ParseLevel(cfg.Log.Level), logging.Format(cfg.Log.Format))
}

// newDashboard builds the dashboard from cfg. The returned close func
// releases the store connection.
func newDashboard(cfg *config.Config, logger *slog.Logger) (*dagview.Dashboard, func() error, error) {
	opts := []dagview.Option{
		dagview.WithLogger(logger),
		dagview.WithLayout(cfg.Layout),
		dagview.WithFocusModifier(cfg.FocusModifier),
		dagview.WithExportName(cfg.ExportName),
		dagview.WithMountBuffer(cfg.MountBuffer),
	}
	closer := func() error { return nil }

	if cfg.Redis.Enabled() {
		ttl, err := cfg.Redis.TTLDuration()
		if err != nil {
			return nil, nil, err
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(ttl),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = store.Client().Ping(ctx).Err()
		cancel()
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		opts = append(opts,
			dagview.WithStore(store),
			dagview.WithLocker(redis.NewLocker(store.Client(), cfg.Redis.Prefix), 0),
		)
		closer = store.Close
		logger.Info("Using redis store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
	} else if cfg.StoreDir != "" {
		opts = append(opts, dagview.WithStore(file.New(cfg.StoreDir)))
		logger.Info("Using file store", "dir", cfg.StoreDir)
	}

	return dagview.New(opts...), closer, nil
}
