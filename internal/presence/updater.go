package presence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/five82/shelfcord/internal/discord"
)

// Dialer opens a presence connection for an application id.
type Dialer func(ctx context.Context, clientID string) (discord.Presence, error)

// resendAfter forces an identical activity through periodically so a
// restarted Discord client picks it up again.
const resendAfter = 10 * time.Minute

// Updater keeps one presence connection alive across poll cycles. It dials
// lazily, drops the connection after any error and skips unchanged updates.
type Updater struct {
	mu       sync.Mutex
	clientID string
	dial     Dialer
	running  func(ctx context.Context) bool
	conn     discord.Presence
	last     *discord.Activity
	lastSent time.Time
	now      func() time.Time
}

// NewUpdater returns an Updater that dials the local Discord client.
func NewUpdater(clientID string) *Updater {
	return &Updater{
		clientID: strings.TrimSpace(clientID),
		dial: func(ctx context.Context, id string) (discord.Presence, error) {
			return discord.Dial(ctx, id)
		},
		running: discord.Running,
		now:     time.Now,
	}
}

// SetClientID switches application id, closing any open connection.
func (u *Updater) SetClientID(clientID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	clientID = strings.TrimSpace(clientID)
	if clientID == u.clientID {
		return
	}
	u.clientID = clientID
	u.disconnectLocked()
}

// Update publishes activity, connecting first when needed.
func (u *Updater) Update(ctx context.Context, activity discord.Activity) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.conn != nil && u.last != nil && reflect.DeepEqual(*u.last, activity) &&
		u.now().Sub(u.lastSent) < resendAfter {
		return nil
	}
	if err := u.connectLocked(ctx); err != nil {
		return err
	}
	if err := u.conn.SetActivity(ctx, activity); err != nil {
		u.disconnectLocked()
		return fmt.Errorf("set activity: %w", err)
	}
	u.last = &activity
	u.lastSent = u.now()
	return nil
}

// Clear removes the presence and drops the connection; the next Update
// connects again. It is a no-op while disconnected.
func (u *Updater) Clear(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.conn == nil {
		return nil
	}
	err := u.conn.ClearActivity(ctx)
	u.disconnectLocked()
	if err != nil {
		return fmt.Errorf("clear activity: %w", err)
	}
	return nil
}

// Connected reports whether a presence connection is open.
func (u *Updater) Connected() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.conn != nil
}

// Close releases the connection. Discord drops the activity with it.
func (u *Updater) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.conn == nil {
		return nil
	}
	err := u.conn.Close()
	u.conn = nil
	u.last = nil
	return err
}

func (u *Updater) connectLocked(ctx context.Context) error {
	if u.conn != nil {
		return nil
	}
	if u.clientID == "" {
		return errors.New("discord app id is not configured")
	}
	if u.running != nil && !u.running(ctx) {
		return discord.ErrNotRunning
	}
	conn, err := u.dial(ctx, u.clientID)
	if err != nil {
		return fmt.Errorf("connect to discord: %w", err)
	}
	slog.Info("connected to discord", "app_id", u.clientID)
	u.conn = conn
	return nil
}

func (u *Updater) disconnectLocked() {
	if u.conn == nil {
		return
	}
	if err := u.conn.Close(); err != nil {
		slog.Debug("close discord connection", "err", err)
	}
	u.conn = nil
	u.last = nil
}
