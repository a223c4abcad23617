// Package transport carries protocol messages between the pipeline client and a worker host.
package transport

import (
	"errors"
	"sync"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
)

// ErrClosed is returned when sending on a closed connection
var ErrClosed = errors.New("transport closed")

// Conn is a reliable, ordered message channel.
// Incoming is closed when the peer goes away or Close is called.
type Conn interface {
	Send(msg protocol.Message) error
	Incoming() <-chan protocol.Message
	Close() error
}

const pipeBuffer = 256

// pipe is the shared state of two connected in-process ends
type pipe struct {
	mu     sync.RWMutex
	closed bool
	once   sync.Once
	done   chan struct{}
	aToB   chan protocol.Message
	bToA   chan protocol.Message
}

// PipeEnd is one side of an in-process connection
type PipeEnd struct {
	p   *pipe
	out chan protocol.Message
	in  chan protocol.Message
}

// NewPipe returns two connected ends. Closing either end closes both.
func NewPipe() (*PipeEnd, *PipeEnd) {
	p := &pipe{
		done: make(chan struct{}),
		aToB: make(chan protocol.Message, pipeBuffer),
		bToA: make(chan protocol.Message, pipeBuffer),
	}
	return &PipeEnd{p: p, out: p.aToB, in: p.bToA}, &PipeEnd{p: p, out: p.bToA, in: p.aToB}
}

// Send delivers msg to the peer, blocking only while the peer's buffer is full
func (e *PipeEnd) Send(msg protocol.Message) error {
	e.p.mu.RLock()
	defer e.p.mu.RUnlock()

	if e.p.closed {
		return ErrClosed
	}

	select {
	case e.out <- msg:
		return nil
	case <-e.p.done:
		return ErrClosed
	}
}

func (e *PipeEnd) Incoming() <-chan protocol.Message {
	return e.in
}

func (e *PipeEnd) Close() error {
	e.p.once.Do(func() {
		close(e.p.done)

		e.p.mu.Lock()
		e.p.closed = true
		close(e.p.aToB)
		close(e.p.bToA)
		e.p.mu.Unlock()
	})
	return nil
}
