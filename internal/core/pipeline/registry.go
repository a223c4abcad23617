// Package pipeline is the caller side of the chart pipeline: source versioning and request routing.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transform"
)

// Generation identifies the authoritative source snapshot. 0 means nothing was registered yet.
type Generation int64

// NoPipeline is returned in place of a generation when no worker host is attached
const NoPipeline Generation = -1

// SourceRef identifies which rows and which transformation are in effect
type SourceRef struct {
	ID                 string `json:"id"`
	RowVersion         string `json:"rowVersion"`
	TransformRulesHash string `json:"transformRulesHash"`
}

// Key is the composite identity of the reference
func (r SourceRef) Key() string {
	return strings.Join([]string{r.ID, r.RowVersion, r.TransformRulesHash}, "|")
}

// Equivalent is true iff all three fields match
func (r SourceRef) Equivalent(other SourceRef) bool {
	return r.ID == other.ID && r.RowVersion == other.RowVersion && r.TransformRulesHash == other.TransformRulesHash
}

// SourceData is the row set pushed to the worker host
type SourceData struct {
	Rows  []filter.Row
	Rules []transform.Rule
}

// Loader fetches the rows of a source; called only when a push is needed
type Loader func(ctx context.Context) (*SourceData, error)

// Sender delivers messages to the worker host
type Sender interface {
	Send(msg protocol.Message) error
}

// Registry bumps the generation and pushes rows whenever the source reference changes
type Registry struct {
	mu         sync.Mutex
	sender     Sender
	generation Generation
	lastKey    string
	onPush     func(Generation)
	log        zerolog.Logger
}

// NewRegistry creates a registry pushing through sender; a nil sender means no pipeline.
// onPush, if set, is called with every successfully pushed generation.
func NewRegistry(sender Sender, onPush func(Generation), logger zerolog.Logger) *Registry {
	return &Registry{
		sender: sender,
		onPush: onPush,
		log:    logger.With().Str("component", "registry").Logger(),
	}
}

// Ensure makes ref the source of the worker host and returns the generation to stamp requests with.
// Bump and push happen under one lock, so the push precedes any request carrying the new generation.
func (r *Registry) Ensure(ctx context.Context, ref SourceRef, load Loader) (Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sender == nil {
		return NoPipeline, nil
	}

	key := ref.Key()
	if r.lastKey != "" && r.lastKey == key {
		return r.generation, nil
	}

	data, err := load(ctx)
	if err != nil {
		return r.generation, fmt.Errorf("load source %s: %w", ref.ID, err)
	}
	if data == nil {
		data = &SourceData{}
	}

	// The generation only moves once the host has the rows
	next := r.generation + 1
	msg := protocol.Message{
		Type:           protocol.TypeSetSource,
		Generation:     int64(next),
		DataSourceID:   ref.ID,
		RowVersion:     ref.RowVersion,
		TransformRules: data.Rules,
		Rows:           data.Rows,
	}
	if err := r.sender.Send(msg); err != nil {
		r.lastKey = ""
		sourcePushes.WithLabelValues("failed").Inc()
		return r.generation, fmt.Errorf("push source %s: %w", ref.ID, err)
	}

	r.generation = next
	r.lastKey = key
	sourcePushes.WithLabelValues("ok").Inc()
	currentGeneration.Set(float64(r.generation))
	if r.onPush != nil {
		r.onPush(r.generation)
	}

	r.log.Info().
		Str("data_source_id", ref.ID).
		Str("row_version", ref.RowVersion).
		Int64("generation", int64(r.generation)).
		Int("rows", len(data.Rows)).
		Msg("📤 Source pushed to worker host")
	return r.generation, nil
}

// Current is the latest generation, pushed or not
func (r *Registry) Current() Generation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sender == nil {
		return NoPipeline
	}
	return r.generation
}

// Attach switches pushes to sender, a fresh worker host connection.
// The new host has no rows, so the next Ensure pushes again under a new generation.
func (r *Registry) Attach(sender Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sender = sender
	r.lastKey = ""
}

// ResolveSourceID picks the explicit data source, falling back to the inherited default
func ResolveSourceID(explicit, inherited string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return inherited
}
