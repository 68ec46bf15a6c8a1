package goodreads

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// ShelfFetcher is implemented by *Client and faked in tests.
type ShelfFetcher interface {
	FetchShelf(ctx context.Context, userID string) ([]Book, error)
}

var _ ShelfFetcher = (*Client)(nil)

const (
	// DefaultBaseURL is the public Goodreads site.
	DefaultBaseURL = "https://www.goodreads.com"
	// CurrentlyReading is the shelf published as presence.
	CurrentlyReading = "currently-reading"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	requestTimeout   = 10 * time.Second
)

// Client fetches shelf pages from Goodreads.
type Client struct {
	base string
	http *resty.Client
}

// Options configure a Client. Zero values use the public site.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NewClient builds a Client.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	userAgent := defaultIfEmpty(opts.UserAgent, defaultUserAgent)
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}

	client := resty.New()
	client.SetBaseURL(base.String())
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml")
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	client.SetTimeout(timeout)
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		slog.Debug("goodreads request",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"elapsed", res.Time(),
		)
		return nil
	})

	return &Client{base: base.String(), http: client}, nil
}

// ShelfURL returns the public URL of the user's currently-reading shelf.
func ShelfURL(base, userID string) string {
	values := url.Values{}
	values.Set("shelf", CurrentlyReading)
	return strings.TrimRight(defaultIfEmpty(base, DefaultBaseURL), "/") +
		"/review/list/" + url.PathEscape(strings.TrimSpace(userID)) + "?" + values.Encode()
}

// ShelfURL returns the shelf URL on this client's site.
func (c *Client) ShelfURL(userID string) string {
	return ShelfURL(c.base, userID)
}

// FetchShelf downloads and parses the user's currently-reading shelf.
func (c *Client) FetchShelf(ctx context.Context, userID string) ([]Book, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("user", userID).
		SetQueryParam("shelf", CurrentlyReading).
		Get("/review/list/{user}")
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("goodreads returned status %d", res.StatusCode())
	}

	books, err := ParseShelf(bytes.NewReader(res.Body()), c.base)
	if err != nil {
		return nil, err
	}
	return books, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := defaultIfEmpty(raw, DefaultBaseURL)
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
