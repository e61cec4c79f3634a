// Package realtime consumes the CRM backend's server-push event stream
// (server-sent events) and dispatches parsed events to a handler. The
// channel has no terminal state: it reconnects forever at a fixed delay and
// is torn down only by cancelling its context.
package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultReconnectDelay is the fixed pause between reconnect attempts.
const DefaultReconnectDelay = 5 * time.Second

// State is the channel connection state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Handler receives parsed events from the channel.
type Handler interface {
	HandleEvent(ev Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ev Event)

func (f HandlerFunc) HandleEvent(ev Event) { f(ev) }

// Channel subscribes to the backend event stream. Connection state is
// single-writer (the Run goroutine); State is safe to read from anywhere.
type Channel struct {
	url     string
	client  *http.Client
	handler Handler
	logger  *slog.Logger
	delay   time.Duration

	state atomic.Int32
}

// Option configures a Channel.
type Option func(*Channel)

// WithReconnectDelay overrides the fixed reconnect delay, for tests.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Channel) { c.delay = d }
}

// WithHTTPClient overrides the HTTP client used for the subscription.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Channel) { c.client = client }
}

// New creates a Channel subscribed to url, dispatching to handler.
func New(url string, handler Handler, logger *slog.Logger, opts ...Option) *Channel {
	c := &Channel{
		url:     url,
		handler: handler,
		logger:  logger,
		delay:   DefaultReconnectDelay,
		// No client timeout: the subscription is a deliberately
		// long-lived response body.
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current connection state.
func (c *Channel) State() State {
	return State(c.state.Load())
}

// Run subscribes and blocks until ctx is cancelled, reconnecting after every
// stream failure at the fixed delay with no attempt ceiling and no backoff
// growth. Transport errors are never fatal and never surfaced beyond the
// log. Returns ctx.Err() after cancellation.
func (c *Channel) Run(ctx context.Context) error {
	policy := backoff.WithContext(backoff.NewConstantBackOff(c.delay), ctx)
	err := backoff.RetryNotify(
		func() error { return c.stream(ctx) },
		policy,
		func(err error, next time.Duration) {
			c.logger.Warn("event stream lost, reconnecting",
				slog.Any("error", err),
				slog.Duration("retry_in", next))
		},
	)
	c.setState(StateDisconnected)
	return err
}

// stream opens one subscription and consumes it until it breaks. It always
// returns non-nil so the retry loop keeps the channel alive.
func (c *Channel) stream(ctx context.Context) error {
	c.setState(StateConnecting)
	defer c.setState(StateDisconnected)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				c.dispatch(strings.Join(data, "\n"))
				data = data[:0]
			}
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		default:
			// event:/id:/retry: fields are not used by the backend
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF // server ended the stream
}

// dispatch parses one event payload and hands it to the handler. Receiving
// any event is the signal that the subscription is actually live, so the
// Connected transition happens here rather than on dial. Unknown or
// malformed payloads are logged and dropped, never fatal.
func (c *Channel) dispatch(payload string) {
	c.setState(StateConnected)

	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		c.logger.Warn("dropping malformed push event", slog.Any("error", err))
		return
	}
	if ev.Type == "" {
		c.logger.Warn("dropping push event without type")
		return
	}
	c.handler.HandleEvent(ev)
}

func (c *Channel) setState(s State) {
	prev := State(c.state.Swap(int32(s)))
	if prev != s {
		c.logger.Debug("realtime channel state change",
			slog.String("from", prev.String()),
			slog.String("to", s.String()))
	}
}
