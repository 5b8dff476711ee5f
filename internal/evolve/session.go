package evolve

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"pathevo/internal/ga"
)

var (
	// ErrWorkerPanic reports a panic inside the optimizer goroutine or one
	// of its evaluation workers
	ErrWorkerPanic = errors.New("optimizer worker panicked")
	// ErrNoOptimizer is reported by a session started without an optimizer
	ErrNoOptimizer = errors.New("session has no optimizer")
)

// EventKind tags a session event
type EventKind int

const (
	EventProgress EventKind = iota
	EventDone
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventDone:
		return "done"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is delivered on the session channel. Exactly one Done or Error
// event is sent last, after which the channel is closed.
type Event struct {
	Kind     EventKind
	Progress Progress
	Result   Result
	Err      error
	Stack    []byte // set when the worker panicked
}

// Session runs an Optimizer in the background and streams its progress.
// Progress events never block the optimizer: when the consumer is more than
// buffer events behind, new progress is dropped and counted.
type Session struct {
	events chan Event
	done   chan struct{}
	buffer int

	result  Result
	err     error
	dropped atomic.Int64
}

// Start launches o.Run in a goroutine. A nil o yields a session that has
// already failed with ErrNoOptimizer.
func Start(ctx context.Context, o *Optimizer, buffer int) *Session {
	if buffer < 1 {
		buffer = 1
	}
	s := &Session{
		// one extra slot keeps room for the terminal event
		events: make(chan Event, buffer+1),
		done:   make(chan struct{}),
		buffer: buffer,
	}
	if o == nil {
		s.result = Result{Fitness: ga.Unset}
		s.err = ErrNoOptimizer
		s.events <- Event{Kind: EventError, Result: s.result, Err: s.err}
		close(s.events)
		close(s.done)
		return s
	}
	go s.run(ctx, o)
	return s
}

// Events returns the event stream
func (s *Session) Events() <-chan Event { return s.events }

// Done is closed when the optimizer has returned
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the run is over and returns its outcome
func (s *Session) Wait() (Result, error) {
	<-s.done
	return s.result, s.err
}

// Dropped returns the number of progress events the consumer missed
func (s *Session) Dropped() int64 { return s.dropped.Load() }

func (s *Session) run(ctx context.Context, o *Optimizer) {
	var final Event
	defer func() {
		if r := recover(); r != nil {
			s.result = Result{RunID: o.runID, Fitness: ga.Unset}
			s.err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
			final = Event{Kind: EventError, Result: s.result, Err: s.err, Stack: debug.Stack()}
			o.logger.Error("optimizer worker panicked", "error", s.err)
		}
		s.send(final, o)
		close(s.events)
		close(s.done)
	}()

	res, err := o.Run(ctx, func(p Progress) { s.publish(p, o) })
	res.Dropped = s.dropped.Load()
	s.result, s.err = res, err
	if err != nil {
		final = Event{Kind: EventError, Result: res, Err: err}
	} else {
		final = Event{Kind: EventDone, Result: res}
	}
}

func (s *Session) publish(p Progress, o *Optimizer) {
	if len(s.events) >= s.buffer {
		s.drop(o)
		return
	}
	s.send(Event{Kind: EventProgress, Progress: p}, o)
}

func (s *Session) send(e Event, o *Optimizer) {
	select {
	case s.events <- e:
	default:
		s.drop(o)
	}
}

func (s *Session) drop(o *Optimizer) {
	s.dropped.Add(1)
	o.metrics.DroppedEvent()
}
