package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/discord"
	"github.com/five82/shelfcord/internal/goodreads"
	"github.com/five82/shelfcord/internal/history"
	"github.com/five82/shelfcord/internal/presence"
	"github.com/five82/shelfcord/internal/state"
)

const (
	// retryDelay is the wait after a failed poll.
	retryDelay = 10 * time.Second
	// waitStep is how often a waiting poller checks its flags.
	waitStep = time.Second
)

// Presenter publishes activities. *presence.Updater implements it.
type Presenter interface {
	SetClientID(clientID string)
	Update(ctx context.Context, activity discord.Activity) error
	Clear(ctx context.Context) error
	Connected() bool
	Close() error
}

var _ Presenter = (*presence.Updater)(nil)

// PollerOptions wire a Poller to its collaborators.
type PollerOptions struct {
	Config   config.Config
	Fetcher  goodreads.ShelfFetcher
	Presence Presenter
	Store    *state.Store
	History  *history.Store                // optional
	ShelfURL func(userID string) string    // optional; defaults to the public site
	Save     func(cfg config.Config) error // optional; persists config changes
	Logger   *slog.Logger                  // optional
	Interval time.Duration                 // optional; overrides the config interval without saving it
}

// Poller runs the shelf-to-presence loop. Its run/pause and keep-alive flags
// are safe to flip from the UI goroutine; quitting is context cancellation.
type Poller struct {
	fetcher  goodreads.ShelfFetcher
	presence Presenter
	store    *state.Store
	history  *history.Store
	shelfURL func(string) string
	save     func(config.Config) error
	logger   *slog.Logger

	mu       sync.Mutex
	cfg      config.Config
	override time.Duration

	running   atomic.Bool
	keepAlive atomic.Bool
	wake      chan struct{}
	step      time.Duration
	now       func() time.Time
}

// NewPoller builds a running Poller.
func NewPoller(opts PollerOptions) *Poller {
	p := &Poller{
		fetcher:  opts.Fetcher,
		presence: opts.Presence,
		store:    opts.Store,
		history:  opts.History,
		shelfURL: opts.ShelfURL,
		save:     opts.Save,
		logger:   opts.Logger,
		cfg:      opts.Config,
		override: opts.Interval,
		wake:     make(chan struct{}, 1),
		step:     waitStep,
		now:      time.Now,
	}
	if p.store == nil {
		p.store = &state.Store{}
	}
	if p.shelfURL == nil {
		p.shelfURL = func(userID string) string {
			return goodreads.ShelfURL(goodreads.DefaultBaseURL, userID)
		}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.running.Store(true)
	p.keepAlive.Store(opts.Config.KeepAlive())
	return p
}

// Store returns the snapshot store the poller publishes to.
func (p *Poller) Store() *state.Store {
	return p.store
}

// Config returns the configuration in use.
func (p *Poller) Config() config.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Interval returns the wait between successful polls.
func (p *Poller) Interval() time.Duration {
	if p.override > 0 {
		return p.override
	}
	return p.Config().Interval()
}

// SetConfig applies cfg to the next poll and wakes the loop.
func (p *Poller) SetConfig(cfg config.Config) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()

	p.presence.SetClientID(cfg.DiscordAppID)
	p.keepAlive.Store(cfg.KeepAlive())
	p.Refresh()
}

// SaveConfig persists cfg and applies it.
func (p *Poller) SaveConfig(cfg config.Config) error {
	if p.save != nil {
		if err := p.save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}
	p.SetConfig(cfg)
	p.logger.Info("config saved", "user", cfg.ShelfUserID(), "interval", cfg.Interval())
	return nil
}

// SelectBook makes id the published book and persists the choice.
func (p *Poller) SelectBook(id string) error {
	cfg := p.Config()
	cfg.LastBookID = id
	return p.SaveConfig(cfg)
}

// Pause stops publishing; the loop clears presence once.
func (p *Poller) Pause() {
	p.running.Store(false)
	p.Refresh()
}

// Resume restarts publishing immediately.
func (p *Poller) Resume() {
	p.running.Store(true)
	p.Refresh()
}

// Running reports whether the loop is publishing.
func (p *Poller) Running() bool {
	return p.running.Load()
}

// SetKeepAlive sets whether polling continues after the UI closes.
func (p *Poller) SetKeepAlive(v bool) {
	p.keepAlive.Store(v)
}

// KeepAlive reports whether polling continues after the UI closes.
func (p *Poller) KeepAlive() bool {
	return p.keepAlive.Load()
}

// Refresh wakes a waiting loop so it polls now.
func (p *Poller) Refresh() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	failures := 0
	paused := false
	for {
		if ctx.Err() != nil {
			return
		}

		if !p.running.Load() {
			if !paused {
				paused = true
				p.store.SetPaused(true)
				p.clear(ctx)
				p.logger.Info("presence loop paused")
			}
			if !p.wait(ctx, p.step) {
				return
			}
			continue
		}
		if paused {
			paused = false
			p.store.SetPaused(false)
			p.logger.Info("presence loop resumed")
			select {
			case <-p.wake:
			default:
			}
		}

		delay := p.Interval()
		if err := p.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			delay = retryDelay
			p.logger.Warn("shelf poll failed", "error", err, "failures", failures, "retry_in", delay)
		} else {
			failures = 0
		}

		p.store.SetNextPoll(p.now().Add(delay))
		if !p.wait(ctx, delay) {
			return
		}
	}
}

// Poll runs one fetch-select-publish cycle. Presence failures are recorded
// but not returned; only shelf failures make the loop retry early.
func (p *Poller) Poll(ctx context.Context) error {
	cfg := p.Config()
	if err := cfg.Validate(); err != nil {
		p.store.Update(nil, nil, err)
		return err
	}
	userID := cfg.ShelfUserID()
	p.store.SetShelfURL(p.shelfURL(userID))

	books, err := p.fetcher.FetchShelf(ctx, userID)
	if errors.Is(err, goodreads.ErrNoBooks) {
		p.store.Update(nil, nil, nil)
		p.clear(ctx)
		p.logger.Info("no book on the currently-reading shelf")
		return err
	}
	if err != nil {
		p.store.Update(nil, nil, err)
		return fmt.Errorf("fetch shelf: %w", err)
	}

	book := p.choose(books, cfg.LastBookID)
	p.record(books)
	p.store.Update(books, &book, nil)

	err = p.presence.Update(ctx, presence.Build(book, p.shelfURL(userID)))
	p.store.SetPresence(p.presence.Connected(), err)
	if err != nil {
		if errors.Is(err, discord.ErrNotRunning) {
			p.logger.Debug("discord is not running")
		} else {
			p.logger.Warn("presence update failed", "error", err)
		}
		return nil
	}
	p.logger.Debug("presence updated", "book", book.Title, "author", book.Author)
	return nil
}

// Close clears presence and closes the connection.
func (p *Poller) Close(ctx context.Context) error {
	p.clear(ctx)
	return p.presence.Close()
}

func (p *Poller) clear(ctx context.Context) {
	err := p.presence.Clear(ctx)
	p.store.SetPresence(p.presence.Connected(), err)
	if err != nil {
		p.logger.Warn("clear presence failed", "error", err)
	}
}

func (p *Poller) record(books []goodreads.Book) {
	if p.history == nil {
		return
	}
	added := p.history.Record(books, p.now())
	if added == 0 {
		return
	}
	if err := p.history.Save(); err != nil {
		p.logger.Warn("save history failed", "error", err)
		return
	}
	p.logger.Info("new books on shelf", "count", added)
}

// choose honours the saved selection only for a book observed on an earlier
// poll. A selection naming a book never observed is dropped from the config;
// one whose book has left the shelf is kept in case it returns.
func (p *Poller) choose(books []goodreads.Book, lastID string) goodreads.Book {
	if lastID != "" && p.history != nil && !p.history.Has(lastID) {
		p.logger.Warn("dropping selection of a book never seen on the shelf", "book_id", lastID)
		p.dropSelection(lastID)
		lastID = ""
	}
	book, _ := goodreads.Select(books, lastID)
	return book
}

func (p *Poller) dropSelection(id string) {
	p.mu.Lock()
	if p.cfg.LastBookID != id {
		p.mu.Unlock()
		return
	}
	p.cfg.LastBookID = ""
	cfg := p.cfg
	p.mu.Unlock()

	if p.save == nil {
		return
	}
	if err := p.save(cfg); err != nil {
		p.logger.Warn("save config failed", "error", err)
	}
}

// wait sleeps for d in steps, returning early when paused or woken. It
// returns false when ctx is cancelled.
func (p *Poller) wait(ctx context.Context, d time.Duration) bool {
	deadline := p.now().Add(d)
	for {
		remaining := deadline.Sub(p.now())
		if remaining <= 0 {
			return true
		}
		step := p.step
		if remaining < step {
			step = remaining
		}
		timer := time.NewTimer(step)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-p.wake:
			timer.Stop()
			return true
		case <-timer.C:
		}
		if !p.running.Load() && d > p.step {
			return true
		}
	}
}
