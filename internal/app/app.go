package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/persist"
	"github.com/five82/marquee/internal/ui"
)

// Options configure the marquee application.
type Options struct {
	ConfigPath   string
	SyncInterval time.Duration // zero uses the configured interval
	Reset        bool          // purge persisted stores before starting
}

// Run boots the marquee TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer func() { _ = logging.Close() }()
	log := logging.Component("app")

	kv, err := persist.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open data store: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Warn().Err(err).Msg("close data store failed")
		}
	}()

	stores, err := NewStores(StoresOptions{
		KV:              kv,
		FetchTimeout:    cfg.FetchTimeout,
		FlashHistoryMax: cfg.FlashHistoryMax,
		Logger:          logging.Logger(),
	})
	if err != nil {
		return fmt.Errorf("init stores: %w", err)
	}
	defer stores.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Reset {
		if err := stores.Reset(); err != nil {
			return err
		}
		log.Info().Msg("stores reset")
	}

	interval := cfg.SyncInterval
	if opts.SyncInterval > 0 {
		interval = opts.SyncInterval
	}
	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("servers", len(stores.Servers.IDs())).
		Dur("sync_interval", interval).
		Msg("marquee starting")

	StartPoller(ctx, stores, interval)

	err = ui.Run(ui.Options{
		Context:      ctx,
		Backend:      stores,
		Servers:      stores.Servers,
		Library:      stores.Library,
		Flash:        stores.Flash,
		Prefs:        stores.Prefs,
		LogFile:      cfg.LogFile,
		FlashTimeout: cfg.FlashTimeout,
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("marquee stopped")
	return nil
}
