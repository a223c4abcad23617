// Package workerhost runs the isolated computation unit that owns the cached row set.
package workerhost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/chartspec"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transform"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transport"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

var (
	ErrMissingWidget  = errors.New("compute request has no widget spec")
	ErrUnknownMessage = errors.New("unknown message type")
)

// Host processes one message at a time from its connection.
// Only the Run goroutine reads or writes the cache fields.
type Host struct {
	conn transport.Conn
	log  zerolog.Logger

	sourceID   string
	rowVersion string
	generation int64
	rows       []filter.Row
	sourceErr  error
}

// New creates a host answering on conn
func New(conn transport.Conn, logger zerolog.Logger) *Host {
	return &Host{
		conn: conn,
		log:  logger.With().Str("component", "worker-host").Logger(),
	}
}

// Serve runs a fresh host on conn until the connection or ctx ends
func Serve(ctx context.Context, conn transport.Conn, logger zerolog.Logger) error {
	return New(conn, logger).Run(ctx)
}

// Run handles messages until ctx is cancelled or the transport closes
func (h *Host) Run(ctx context.Context) error {
	h.log.Info().Msg("🚀 Worker host started")
	defer activeHosts.Dec()
	activeHosts.Inc()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("🛑 Worker host stopping due to context cancellation")
			return ctx.Err()

		case msg, ok := <-h.conn.Incoming():
			if !ok {
				h.log.Info().Msg("🛑 Transport closed, worker host stopped")
				return nil
			}
			h.handle(msg)
		}
	}
}

func (h *Host) handle(msg protocol.Message) {
	messagesTotal.WithLabelValues(string(msg.Type)).Inc()

	switch msg.Type {
	case protocol.TypeSetSource:
		h.setSource(msg)

	case protocol.TypeComputeRequest:
		if !msg.Routable() {
			h.log.Warn().Int64("generation", msg.Generation).Msg("compute request without request id dropped")
			return
		}
		reply := h.compute(msg)
		if h.generation != 0 {
			reply.Generation = h.generation
		}
		h.reply(reply)

	default:
		if !msg.Routable() {
			h.log.Warn().Str("type", string(msg.Type)).Msg("unroutable message dropped")
			return
		}
		h.reply(msg.ErrorReply(fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)))
	}
}

// setSource replaces the cache with the pushed rows after applying the transform rules
func (h *Host) setSource(msg protocol.Message) {
	rows, err := transform.Apply(msg.Rows, msg.TransformRules)

	h.sourceID = msg.DataSourceID
	h.rowVersion = msg.RowVersion
	h.generation = msg.Generation
	h.sourceErr = err
	h.rows = rows
	cachedRows.Set(float64(len(rows)))

	if err != nil {
		h.log.Error().Err(err).Str("data_source_id", msg.DataSourceID).Msg("❌ Transform rules failed, source unusable until next push")
		return
	}

	h.log.Info().
		Str("data_source_id", msg.DataSourceID).
		Str("row_version", msg.RowVersion).
		Int64("generation", msg.Generation).
		Int("rows", len(rows)).
		Msg("✅ Source cached")
}

// compute answers a request against the current cache, whatever generation it carries.
// The reply is stamped with the cache generation so the caller can spot results built from other rows.
func (h *Host) compute(msg protocol.Message) (reply protocol.Message) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("request_id", msg.RequestID).Msg("❌ Compute panicked")
			reply = msg.ErrorReply(fmt.Errorf("compute failed: %v", r))
		}
		computeDuration.WithLabelValues(string(reply.Type)).Observe(time.Since(start).Seconds())
	}()

	if h.sourceErr != nil {
		return msg.ErrorReply(fmt.Errorf("source %s: %w", h.sourceID, h.sourceErr))
	}

	result, err := Compute(h.rows, msg)
	if err != nil {
		h.log.Debug().Err(err).Str("request_id", msg.RequestID).Msg("compute failed")
		return msg.ErrorReply(err)
	}

	h.log.Debug().
		Str("request_id", msg.RequestID).
		Int64("generation", msg.Generation).
		Int64("cache_generation", h.generation).
		Dur("took", time.Since(start)).
		Msg("computed chart")
	return msg.PayloadReply(result)
}

func (h *Host) reply(msg protocol.Message) {
	if err := h.conn.Send(msg); err != nil {
		h.log.Warn().Err(err).Str("request_id", msg.RequestID).Msg("⚠️  Failed to send reply")
	}
}

// Compute runs filter, aggregation and compilation for one request over rows.
// Global filters and widget filters are combined with AND.
func Compute(rows []filter.Row, req protocol.Message) (*protocol.ChartResult, error) {
	if req.WidgetSpec == nil {
		return nil, ErrMissingWidget
	}

	spec := *req.WidgetSpec
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	for _, clause := range req.FilterSet {
		if err := filter.Validate(clause); err != nil {
			return nil, fmt.Errorf("global filter: %w", err)
		}
	}

	clauses := make([]filter.Clause, 0, len(req.FilterSet)+len(spec.Filters))
	clauses = append(clauses, req.FilterSet...)
	clauses = append(clauses, spec.Filters...)

	payload, err := analytics.Aggregate(filter.Apply(rows, clauses...), spec)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	theme := widget.DefaultTheme()
	if req.Theme != nil {
		theme = req.Theme.WithDefaults()
	}

	chart, err := chartspec.Compile(payload, spec, theme, req.Compact)
	if err != nil {
		return nil, err
	}

	return &protocol.ChartResult{Payload: payload, Spec: chart}, nil
}
