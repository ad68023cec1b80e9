package app

import (
	"context"
	"log/slog"
	"sync"

	"scanner_go/internal/domain"
	"scanner_go/internal/infra"
	"scanner_go/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	Storage    *storage.Storage
	Downloader *infra.IconDownloader
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB, assets)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping Token Scanner...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (presets + app config)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	if presets, err := store.ListPresets(); err == nil {
		slog.Info("✅ Database initialized", slog.Int("presets", len(presets)))
	} else {
		slog.Warn("Database initialized, preset listing failed", slog.Any("error", err))
	}

	// 4. Initialize Icon Downloader
	downloader, err := infra.NewIconDownloader()
	if err != nil {
		return err
	}
	b.Downloader = downloader
	slog.Info("✅ Icon downloader ready")

	return nil
}

// StartupFilter returns the filter to activate at launch: the previous
// session's filter when one was stored, the config default otherwise.
func (b *Bootstrap) StartupFilter() domain.ScannerFilter {
	if b.Storage != nil {
		if f, ok, err := b.Storage.LoadLastFilter(); err == nil && ok {
			slog.Info("Restoring last session filter")
			return f
		}
	}
	return b.Config.Filter
}

// SyncIcons downloads logos for the given tokens in the background, a few at
// a time. Missing logos are normal for fresh tokens and only logged at debug.
func (b *Bootstrap) SyncIcons(ctx context.Context, tokens []domain.TokenData) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 5) // Limit concurrent downloads

	for _, tok := range tokens {
		wg.Add(1)
		go func(chain, addr, symbol string) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}: // Acquire
			}
			defer func() { <-semaphore }() // Release

			if _, err := b.Downloader.DownloadIcon(chain, addr); err != nil {
				slog.Debug("No icon for token",
					slog.String("symbol", symbol),
					slog.Any("error", err))
			}
		}(tok.Chain, tok.TokenAddress, tok.TokenSymbol)
	}

	wg.Wait()
	slog.Debug("Icon sync pass completed", slog.Int("tokens", len(tokens)))
}
