package pipeline

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transport"
)

type pendingEntry struct {
	generation Generation
	future     *Future
}

// Router correlates compute requests with the worker host's replies
type Router struct {
	conn transport.Conn
	log  zerolog.Logger

	mu         sync.Mutex
	pending    map[string]pendingEntry
	latest     Generation
	terminated bool
	done       chan struct{}
}

// NewRouter starts listening on conn. A nil conn yields a router that refuses every request.
func NewRouter(conn transport.Conn, logger zerolog.Logger) *Router {
	r := &Router{
		conn:    conn,
		log:     logger.With().Str("component", "router").Logger(),
		pending: make(map[string]pendingEntry),
		done:    make(chan struct{}),
	}

	if conn == nil {
		r.terminated = true
		close(r.done)
		return r
	}

	go r.listen()
	return r
}

func (r *Router) listen() {
	for msg := range r.conn.Incoming() {
		r.Dispatch(msg)
	}
	r.log.Warn().Msg("🛑 Worker host connection closed")
	r.terminate()
}

// Advance records a newly pushed generation; entries stamped earlier settle as superseded
func (r *Router) Advance(generation Generation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if generation > r.latest {
		r.latest = generation
	}
}

// Submit sends a compute request stamped with generation. It never waits for the reply.
func (r *Router) Submit(generation Generation, req protocol.Message) (*Future, error) {
	if generation == NoPipeline || r.conn == nil {
		return nil, ErrNoPipeline
	}

	id := uuid.NewString()
	future := newFuture(id)

	r.mu.Lock()
	if r.terminated {
		r.mu.Unlock()
		return nil, ErrHostTerminated
	}
	r.pending[id] = pendingEntry{generation: generation, future: future}
	pendingRequests.Inc()
	r.mu.Unlock()

	req.Type = protocol.TypeComputeRequest
	req.RequestID = id
	req.Generation = int64(generation)

	if err := r.conn.Send(req); err != nil {
		r.remove(id)
		return nil, fmt.Errorf("send compute request: %w", err)
	}
	return future, nil
}

// Dispatch settles the pending request a reply answers.
// Unknown ids are dropped; a reply from another generation settles as nil.
func (r *Router) Dispatch(msg protocol.Message) {
	if !msg.Routable() {
		unroutableReplies.Inc()
		r.log.Debug().Str("type", string(msg.Type)).Str("error", msg.Error).Msg("reply without request id dropped")
		return
	}

	r.mu.Lock()
	entry, ok := r.pending[msg.RequestID]
	if ok {
		delete(r.pending, msg.RequestID)
		pendingRequests.Dec()
	}
	latest := r.latest
	r.mu.Unlock()

	if !ok {
		unroutableReplies.Inc()
		r.log.Debug().Str("request_id", msg.RequestID).Msg("reply for unknown request dropped")
		return
	}

	replyGeneration := Generation(msg.Generation)
	if (msg.Generation != 0 && replyGeneration != entry.generation) || entry.generation < latest {
		settledRequests.WithLabelValues(outcomeSuperseded).Inc()
		r.log.Debug().
			Str("request_id", msg.RequestID).
			Int64("generation", int64(entry.generation)).
			Int64("reply_generation", msg.Generation).
			Msg("superseded reply discarded")
		entry.future.resolve(nil)
		return
	}

	switch msg.Type {
	case protocol.TypePayload:
		settledRequests.WithLabelValues(outcomeSuccess).Inc()
		entry.future.resolve(msg.Result)
	case protocol.TypeError:
		settledRequests.WithLabelValues(outcomeHostError).Inc()
		entry.future.reject(&HostError{Message: msg.Error})
	default:
		settledRequests.WithLabelValues(outcomeHostError).Inc()
		entry.future.reject(&HostError{Message: fmt.Sprintf("unexpected reply type %q", msg.Type)})
	}
}

// Pending is the number of unsettled requests
func (r *Router) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Done is closed once the router stops accepting requests
func (r *Router) Done() <-chan struct{} {
	return r.done
}

// Shutdown closes the connection and rejects every pending request
func (r *Router) Shutdown() error {
	if r.conn == nil {
		return nil
	}
	r.terminate()
	return r.conn.Close()
}

func (r *Router) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[id]; ok {
		delete(r.pending, id)
		pendingRequests.Dec()
	}
}

func (r *Router) terminate() {
	r.mu.Lock()
	if r.terminated {
		r.mu.Unlock()
		return
	}
	r.terminated = true
	pending := r.pending
	r.pending = make(map[string]pendingEntry)
	pendingRequests.Sub(float64(len(pending)))
	close(r.done)
	r.mu.Unlock()

	for _, entry := range pending {
		settledRequests.WithLabelValues(outcomeTerminated).Inc()
		entry.future.reject(ErrHostTerminated)
	}
	if len(pending) > 0 {
		r.log.Warn().Int("rejected", len(pending)).Msg("⚠️  Pending chart requests rejected")
	}
}
