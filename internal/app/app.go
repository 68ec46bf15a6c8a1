package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/goodreads"
	"github.com/five82/shelfcord/internal/history"
	"github.com/five82/shelfcord/internal/logging"
	"github.com/five82/shelfcord/internal/prefs"
	"github.com/five82/shelfcord/internal/presence"
	"github.com/five82/shelfcord/internal/state"
	"github.com/five82/shelfcord/internal/ui"
)

// closeTimeout bounds the final presence clear on exit.
const closeTimeout = 3 * time.Second

// Options configure the shelfcord application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/shelfcord/prefs.toml
	LogPath     string // empty uses default ~/.local/share/shelfcord/shelfcord.log
	HistoryPath string // empty uses default ~/.local/share/shelfcord/history.json
	Interval    int    // seconds; zero uses the config file value
	Headless    bool
	Debug       bool
	Stderr      io.Writer // headless log mirror; nil uses os.Stderr
}

// Run boots the poller and, unless headless, the TUI. It returns when ctx is
// cancelled, or when the UI closes with keep running disabled.
func Run(ctx context.Context, opts Options) error {
	configPath, err := config.ResolvePath(opts.ConfigPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var interval time.Duration
	if opts.Interval > 0 {
		interval = time.Duration(max(opts.Interval, config.MinRefreshSeconds)) * time.Second
	}

	logPath, err := config.ExpandPath(defaultPath(opts.LogPath, logging.DefaultPath()))
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	logOpts := logging.Options{Path: logPath, Debug: opts.Debug}
	if opts.Headless {
		logOpts.Stderr = opts.Stderr
		if logOpts.Stderr == nil {
			logOpts.Stderr = os.Stderr
		}
	}
	logger, err := logging.Setup(logOpts)
	if err != nil {
		return err
	}
	defer logger.Close()
	slog.SetDefault(logger.Logger)

	hist := openHistory(opts.HistoryPath, logger.Logger)

	client, err := goodreads.NewClient(goodreads.Options{})
	if err != nil {
		return fmt.Errorf("init goodreads client: %w", err)
	}

	store := &state.Store{}
	poller := NewPoller(PollerOptions{
		Config:   cfg,
		Fetcher:  client,
		Presence: presence.NewUpdater(cfg.DiscordAppID),
		Store:    store,
		History:  hist,
		ShelfURL: client.ShelfURL,
		Save: func(c config.Config) error {
			return config.Save(configPath, c)
		},
		Logger:   logger.Logger,
		Interval: interval,
	})

	logger.Info("shelfcord starting",
		"config", configPath,
		"user", cfg.ShelfUserID(),
		"interval", poller.Interval(),
		"headless", opts.Headless,
	)
	if err := cfg.Validate(); err != nil {
		logger.Warn("config incomplete", "path", configPath, "error", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		poller.Run(ctx)
	}()
	defer stopPoller(cancel, done, poller, logger.Logger)

	if opts.Headless {
		<-ctx.Done()
		return nil
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs", "error", err)
	}
	err = ui.Run(ui.Options{
		Context:    ctx,
		Controller: poller,
		Store:      store,
		ConfigPath: configPath,
		LogPath:    logPath,
		PollTick:   time.Second,
		Prefs:      userPrefs,
		PrefsPath:  defaultPath(opts.PrefsPath, prefs.DefaultPath()),
	})
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	holdAfterUI(ctx, poller, os.Stderr, logger.Logger)
	return nil
}

// holdAfterUI keeps the process, and with it the poll loop, alive until ctx
// is cancelled when keep-alive is set. It reports whether it waited.
func holdAfterUI(ctx context.Context, poller *Poller, notice io.Writer, logger *slog.Logger) bool {
	if ctx.Err() != nil || !poller.KeepAlive() {
		return false
	}
	logger.Info("ui closed, presence keeps running until interrupted")
	fmt.Fprintln(notice, "shelfcord: presence keeps running in the background; press Ctrl+C to stop")
	<-ctx.Done()
	return true
}

// stopPoller ends the poll loop, waits for it to return and clears presence.
func stopPoller(cancel context.CancelFunc, done <-chan struct{}, poller *Poller, logger *slog.Logger) {
	cancel()
	<-done
	ctx, closeCancel := context.WithTimeout(context.Background(), closeTimeout)
	defer closeCancel()
	if err := poller.Close(ctx); err != nil {
		logger.Warn("close presence", "error", err)
	}
	logger.Info("shelfcord stopped")
}

func openHistory(path string, logger *slog.Logger) *history.Store {
	resolved, err := config.ExpandPath(defaultPath(path, history.DefaultPath()))
	if err != nil {
		logger.Warn("resolve history path", "error", err)
		return nil
	}
	hist, err := history.Open(resolved)
	if err != nil {
		logger.Warn("book history unavailable", "path", resolved, "error", err)
		return nil
	}
	return hist
}

func defaultPath(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}

// ErrNoShelf is returned by LoadShelf when the shelf has no readable books.
var ErrNoShelf = errors.New("no books on the currently-reading shelf")

// LoadShelf loads the config at configPath and fetches its shelf once.
func LoadShelf(ctx context.Context, configPath string) (config.Config, []goodreads.Book, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	client, err := goodreads.NewClient(goodreads.Options{})
	if err != nil {
		return cfg, nil, fmt.Errorf("init goodreads client: %w", err)
	}
	books, err := client.FetchShelf(ctx, cfg.ShelfUserID())
	if errors.Is(err, goodreads.ErrNoBooks) {
		return cfg, nil, ErrNoShelf
	}
	if err != nil {
		return cfg, nil, fmt.Errorf("fetch shelf: %w", err)
	}
	return cfg, books, nil
}
