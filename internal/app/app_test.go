package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPoller(t *testing.T, p *Poller) (context.Context, context.CancelFunc, chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()
	return ctx, cancel, done
}

func TestHoldAfterUI_KeepAliveRunsUntilInterrupted(t *testing.T) {
	fetcher := &fakeFetcher{books: testShelf}
	presenter := &fakePresenter{}
	cfg := testConfig()
	cfg.SetKeepAlive(true)
	p, _ := newTestPoller(t, cfg, fetcher, presenter)

	ctx, cancel, done := startPoller(t, p)
	require.Eventually(t, func() bool { return fetcher.Calls() >= 1 }, time.Second, 5*time.Millisecond)

	var notice bytes.Buffer
	held := make(chan bool, 1)
	go func() { held <- holdAfterUI(ctx, p, &notice, p.logger) }()

	// With the UI gone the loop keeps publishing.
	before := fetcher.Calls()
	p.Refresh()
	require.Eventually(t, func() bool { return fetcher.Calls() > before }, time.Second, 5*time.Millisecond)
	select {
	case <-held:
		t.Fatal("holdAfterUI returned before the context was cancelled")
	default:
	}
	assert.Equal(t, 0, presenter.Clears())

	cancel()
	select {
	case waited := <-held:
		assert.True(t, waited)
	case <-time.After(time.Second):
		t.Fatal("holdAfterUI did not return after cancel")
	}
	assert.Contains(t, notice.String(), "keeps running in the background")

	stopPoller(cancel, done, p, p.logger)
	assert.Equal(t, 1, presenter.Clears())
	assert.Equal(t, 1, presenter.Closes())
}

func TestHoldAfterUI_WithoutKeepAliveExits(t *testing.T) {
	fetcher := &fakeFetcher{books: testShelf}
	presenter := &fakePresenter{}
	cfg := testConfig()
	cfg.SetKeepAlive(false)
	p, _ := newTestPoller(t, cfg, fetcher, presenter)

	ctx, cancel, done := startPoller(t, p)
	require.Eventually(t, func() bool { return fetcher.Calls() >= 1 }, time.Second, 5*time.Millisecond)

	var notice bytes.Buffer
	assert.False(t, holdAfterUI(ctx, p, &notice, p.logger))
	assert.Empty(t, notice.String())

	stopPoller(cancel, done, p, p.logger)
	select {
	case <-done:
	default:
		t.Fatal("poll loop still running after stopPoller")
	}
	assert.Equal(t, 1, presenter.Clears(), "presence is cleared on exit")
	assert.Equal(t, 1, presenter.Closes())
}

func TestHoldAfterUI_KeepAliveToggledFromUI(t *testing.T) {
	cfg := testConfig()
	cfg.SetKeepAlive(true)
	p, _ := newTestPoller(t, cfg, &fakeFetcher{books: testShelf}, &fakePresenter{})

	p.SetKeepAlive(false)
	var notice bytes.Buffer
	assert.False(t, holdAfterUI(context.Background(), p, &notice, p.logger))
}
