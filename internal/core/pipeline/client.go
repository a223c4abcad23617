package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transport"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// Request is one chart computation
type Request struct {
	Widget  widget.Spec
	Filters []filter.Clause
	Theme   *widget.Theme
	Compact bool
}

func (r Request) message() protocol.Message {
	spec := r.Widget
	return protocol.Message{
		WidgetSpec: &spec,
		FilterSet:  r.Filters,
		Theme:      r.Theme,
		Compact:    r.Compact,
	}
}

// Client ties source registration and request routing to one worker host connection at a time
type Client struct {
	registry *Registry
	log      zerolog.Logger

	mu     sync.RWMutex
	router *Router
	closed bool
}

// NewClient wires a registry and a router over conn. A nil conn gives a client without pipeline
// until Attach supplies one.
func NewClient(conn transport.Conn, logger zerolog.Logger) *Client {
	c := &Client{
		router: NewRouter(conn, logger),
		log:    logger.With().Str("component", "pipeline").Logger(),
	}

	var sender Sender
	if conn != nil {
		sender = conn
	}
	c.registry = NewRegistry(sender, c.advance, logger)
	return c
}

// Attach replaces the worker host connection, typically after the previous one dropped.
// Requests pending on the old connection are rejected; the source is pushed again on first use.
func (c *Client) Attach(conn transport.Conn) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		_ = conn.Close()
		return ErrHostTerminated
	}

	c.registry.Attach(conn)

	router := NewRouter(conn, c.log)
	router.Advance(c.registry.Current())

	c.mu.Lock()
	old := c.router
	c.router = router
	c.mu.Unlock()

	if err := old.Shutdown(); err != nil {
		c.log.Debug().Err(err).Msg("closing previous worker host connection")
	}
	return nil
}

func (c *Client) current() *Router {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.router
}

func (c *Client) advance(generation Generation) {
	c.current().Advance(generation)
}

// Ensure registers the source when needed and returns the generation requests should carry
func (c *Client) Ensure(ctx context.Context, ref SourceRef, load Loader) (Generation, error) {
	return c.registry.Ensure(ctx, ref, load)
}

// Submit registers the source when needed and sends the request without waiting
func (c *Client) Submit(ctx context.Context, ref SourceRef, load Loader, req Request) (*Future, error) {
	generation, err := c.registry.Ensure(ctx, ref, load)
	if err != nil {
		return nil, err
	}
	return c.SubmitAt(generation, req)
}

// SubmitAt sends the request stamped with a generation obtained from Ensure
func (c *Client) SubmitAt(generation Generation, req Request) (*Future, error) {
	return c.current().Submit(generation, req.message())
}

// Compute submits and awaits the result. A nil result with a nil error means a newer source superseded it.
func (c *Client) Compute(ctx context.Context, ref SourceRef, load Loader, req Request) (*protocol.ChartResult, error) {
	generation, err := c.registry.Ensure(ctx, ref, load)
	if err != nil {
		return nil, err
	}
	return c.ComputeAt(ctx, generation, req)
}

// ComputeAt is Compute for a generation obtained from Ensure
func (c *Client) ComputeAt(ctx context.Context, generation Generation, req Request) (*protocol.ChartResult, error) {
	start := time.Now()

	future, err := c.SubmitAt(generation, req)
	if err != nil {
		return nil, err
	}

	result, err := future.Await(ctx)
	c.log.Debug().
		Str("request_id", future.RequestID()).
		Int64("generation", int64(generation)).
		Str("widget_type", string(req.Widget.Type)).
		Dur("took", time.Since(start)).
		Bool("superseded", result == nil && err == nil).
		Msg("chart computed")
	return result, err
}

// Generation is the current source generation, NoPipeline without a host
func (c *Client) Generation() Generation {
	return c.registry.Current()
}

// Pending is the number of requests awaiting the host
func (c *Client) Pending() int {
	return c.current().Pending()
}

// Done is closed when the current worker host connection is gone
func (c *Client) Done() <-chan struct{} {
	return c.current().Done()
}

// Close terminates the host connection, rejecting pending requests. Later Attach calls fail.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	router := c.router
	c.mu.Unlock()
	return router.Shutdown()
}
