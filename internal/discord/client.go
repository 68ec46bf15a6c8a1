package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	richclient "github.com/hugolgst/rich-go/client"
)

// ErrNotRunning means the Discord IPC endpoint did not accept a connection.
var ErrNotRunning = errors.New("discord is not running")

// Presence is implemented by *Client and faked in tests.
type Presence interface {
	SetActivity(ctx context.Context, activity Activity) error
	ClearActivity(ctx context.Context) error
	Close() error
}

var _ Presence = (*Client)(nil)

// session guards the RPC client, which keeps one process-wide socket.
var session sync.Mutex

// Client publishes activities through the local Discord RPC socket.
type Client struct {
	mu       sync.Mutex
	clientID string
	open     bool
}

// Dial checks that Discord is listening and logs in with the application id.
func Dial(ctx context.Context, clientID string) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("client id required")
	}
	c := &Client{clientID: clientID}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loginLocked(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// SetActivity replaces the rich presence for this process, logging in again
// after a ClearActivity.
func (c *Client) SetActivity(ctx context.Context, activity Activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The RPC client does not surface write errors, so a vanished socket
	// is only noticed here.
	if err := probe(ctx); err != nil {
		c.logoutLocked(ctx)
		return err
	}
	if err := c.loginLocked(ctx); err != nil {
		return err
	}
	payload := toRich(activity)
	if err := call(ctx, func() error { return richclient.SetActivity(payload) }); err != nil {
		c.logoutLocked(ctx)
		return fmt.Errorf("set activity: %w", err)
	}
	return nil
}

// ClearActivity removes the rich presence. Discord drops an activity when
// the socket that set it closes, so this logs out.
func (c *Client) ClearActivity(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logoutLocked(ctx)
}

// Close logs out and releases the socket.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logoutLocked(ctx)
}

func (c *Client) loginLocked(ctx context.Context) error {
	if c.open {
		return nil
	}
	if err := probe(ctx); err != nil {
		return err
	}
	if err := call(ctx, func() error { return richclient.Login(c.clientID) }); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.open = true
	return nil
}

func (c *Client) logoutLocked(ctx context.Context) error {
	if !c.open {
		return nil
	}
	c.open = false
	return call(ctx, func() error {
		richclient.Logout()
		return nil
	})
}

// probe dials the IPC endpoint and hangs up, so a missing Discord fails
// fast and honours ctx.
func probe(ctx context.Context) error {
	conn, err := dialEndpoint(ctx, endpoint())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	return conn.Close()
}

// call runs fn on the shared RPC session. The RPC client panics on some
// socket failures and has no deadlines, so fn runs on its own goroutine and
// ctx bounds the wait.
func call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		session.Lock()
		defer session.Unlock()
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("discord rpc: %v", r)
			}
		}()
		done <- fn()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toRich(a Activity) richclient.Activity {
	out := richclient.Activity{
		Details: a.Details,
		State:   a.State,
	}
	if a.Assets != nil {
		out.LargeImage = a.Assets.LargeImage
		out.LargeText = a.Assets.LargeText
		out.SmallImage = a.Assets.SmallImage
		out.SmallText = a.Assets.SmallText
	}
	if ts := a.Timestamps; ts != nil && (ts.Start > 0 || ts.End > 0) {
		out.Timestamps = &richclient.Timestamps{}
		if ts.Start > 0 {
			start := time.Unix(ts.Start, 0)
			out.Timestamps.Start = &start
		}
		if ts.End > 0 {
			end := time.Unix(ts.End, 0)
			out.Timestamps.End = &end
		}
	}
	for i, b := range a.Buttons {
		if i == MaxButtons {
			break
		}
		out.Buttons = append(out.Buttons, &richclient.Button{Label: b.Label, Url: b.URL})
	}
	return out
}
