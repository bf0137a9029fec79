package datafeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"candleview/event"
)

const DefaultBaseURL = "https://beta.forextester.com/data/api/Metadata/bars/chunked"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("datafeed: unexpected status %d from %s", e.StatusCode, e.URL)
}

// Temporary reports whether a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	retries       uint64
	retryInterval time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRetry retries network errors and 5xx responses up to n times with
// exponential backoff starting at initial.
func WithRetry(n uint64, initial time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.retryInterval = initial
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 30 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConnsPerHost:   2,
		},
		Timeout: time.Minute,
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       baseURL,
		http:          newHTTPClient(),
		log:           zap.NewNop(),
		retryInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the request URL of q.
func (c *Client) URL(q event.Query) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("?Broker=")
	b.WriteString(url.QueryEscape(q.Broker))
	b.WriteString("&Symbol=")
	b.WriteString(url.QueryEscape(q.Symbol))
	b.WriteString("&Timeframe=")
	b.WriteString(strconv.Itoa(q.Timeframe))
	b.WriteString("&Start=")
	b.WriteString(strconv.FormatInt(q.Start, 10))
	b.WriteString("&End=")
	b.WriteString(strconv.FormatInt(q.End, 10))
	b.WriteString("&UseMessagePack=")
	b.WriteString(strconv.FormatBool(q.UseMessagePack))
	return b.String()
}

// FetchChunks downloads and decodes the chunks of q.
func (c *Client) FetchChunks(ctx context.Context, q event.Query) ([]event.RawChunk, error) {
	if c.retries == 0 {
		return c.fetch(ctx, q)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.retries), ctx)

	var chunks []event.RawChunk
	op := func() error {
		var err error
		chunks, err = c.fetch(ctx, q)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		c.log.Warn("retrying fetch", zap.Stringer("query", q), zap.Duration("delay", delay), zap.Error(err))
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (c *Client) fetch(ctx context.Context, q event.Query) ([]event.RawChunk, error) {
	start := time.Now()
	u := c.URL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("datafeed: new request: %w", err)
	}
	if q.UseMessagePack {
		req.Header.Set("Accept", "application/x-msgpack")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datafeed: get %s: %w", q, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("datafeed: read body: %w", err)
	}

	var chunks []event.RawChunk
	if isMsgpack(resp.Header.Get("Content-Type"), q.UseMessagePack) {
		chunks, err = DecodeMsgpack(body)
	} else {
		chunks, err = DecodeJSON(body)
	}
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetched chunks",
		zap.Stringer("query", q),
		zap.Int("chunks", len(chunks)),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)
	return chunks, nil
}

func isMsgpack(contentType string, requested bool) bool {
	switch {
	case strings.Contains(contentType, "msgpack"):
		return true
	case strings.Contains(contentType, "json"):
		return false
	default:
		return requested
	}
}

func retryable(err error) bool {
	if errors.Is(err, ErrMalformedPayload) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
