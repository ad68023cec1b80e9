package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scanner_go/internal/app"
	"scanner_go/internal/event"
	"scanner_go/internal/infra"
	"scanner_go/internal/infra/scannerapi"
	"scanner_go/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize("configs/config.yaml"); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Warm the tick event pool before the feed starts pushing
	event.Warmup()

	// 5. View Service over the scanner REST client + feed worker
	fetcher := scannerapi.NewClient(cfg.API.Scanner.HTTPURL)

	feed := scannerapi.NewFeedWorker(
		cfg.API.Scanner.WSURL,
		nil, // inbox wired below, the sender side needs no inbox
		time.Duration(cfg.Feed.PingIntervalSec)*time.Second,
		time.Duration(cfg.Feed.ReadTimeoutSec)*time.Second,
	)

	view := service.NewViewService(cfg.Feed.InboxSize, fetcher, feed, nil)
	feed.SetInbox(view.Inbox())

	if err := feed.Connect(ctx); err != nil {
		slog.Error("Failed to start feed worker", slog.Any("error", err))
	}
	defer feed.Disconnect()

	startFilter := bootstrap.StartupFilter()
	view.Start(ctx, startFilter)
	if err := bootstrap.Storage.SaveLastFilter(startFilter); err != nil {
		slog.Warn("Failed to persist filter", slog.Any("error", err))
	}
	slog.InfoContext(ctx, "✅ Scanner view started", slog.Any("chains", startFilter.Chains))

	// 6. Render loop: re-read the window whenever the revision moved
	ticker := time.NewTicker(time.Duration(cfg.UI.UpdateIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	var lastRev uint64
	var iconsSynced bool
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "👋 Shutting down gracefully...")
			snap := infra.GlobalMetrics.Snapshot()
			slog.Info("Final metrics",
				slog.Uint64("events", snap.EventsProcessed),
				slog.Uint64("ticks_dropped", snap.TicksDropped),
				slog.Uint64("fetch_errors", snap.FetchErrors),
				slog.Uint64("reconnects", snap.FeedReconnects))
			return
		case <-ticker.C:
			rev := view.Rev()
			if rev == lastRev {
				continue
			}
			lastRev = rev

			tokens := view.Tokens()
			slog.Info("View updated",
				slog.Uint64("rev", rev),
				slog.Int("visible", len(tokens)),
				slog.Int("total_rows", view.TotalRows()),
				slog.Bool("loading", view.Loading()),
				slog.String("error", view.Err()))

			if !iconsSynced && len(tokens) > 0 {
				iconsSynced = true
				go bootstrap.SyncIcons(ctx, tokens)
			}
		}
	}
}
