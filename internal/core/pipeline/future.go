package pipeline

import (
	"context"
	"sync"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
)

// Future settles once with a chart result, nil for a superseded request, or an error
type Future struct {
	requestID string
	once      sync.Once
	done      chan struct{}
	result    *protocol.ChartResult
	err       error
}

func newFuture(requestID string) *Future {
	return &Future{requestID: requestID, done: make(chan struct{})}
}

// RequestID is the correlation id sent to the worker host
func (f *Future) RequestID() string {
	return f.requestID
}

// Done is closed once the future settles
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until settlement or ctx ends.
// Giving up on ctx does not cancel the work on the host.
func (f *Future) Await(ctx context.Context) (*protocol.ChartResult, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Future) resolve(result *protocol.ChartResult) {
	f.settle(result, nil)
}

func (f *Future) reject(err error) {
	f.settle(nil, err)
}

func (f *Future) settle(result *protocol.ChartResult, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}
