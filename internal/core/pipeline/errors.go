package pipeline

import "errors"

var (
	// ErrNoPipeline is returned synchronously when no worker host is attached
	ErrNoPipeline = errors.New("no worker host available")

	// ErrHostTerminated rejects every request pending when the worker host goes away
	ErrHostTerminated = errors.New("worker host terminated")
)

// HostError carries a failure reported by the worker host.
// Filter, aggregation and compile failures are not distinguished.
type HostError struct {
	Message string
}

func (e *HostError) Error() string {
	return "could not compute chart: " + e.Message
}
