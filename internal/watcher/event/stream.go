package event

import (
	"context"
	"sync"
)

// Publisher accepts events from producers.
type Publisher interface {
	// Publish waits until the event is buffered or the stream is closed.
	Publish(ev Event) bool
	// TryPublish never waits; it drops the event when the buffer is full.
	TryPublish(ev Event) bool
}

// Stream is a bounded event channel with a single consumer. Producers running
// on worker goroutines use Publish, the interactive side uses TryPublish so it
// is never blocked by a slow consumer.
type Stream struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

// NewStream creates a stream buffering up to size events.
func NewStream(size int) *Stream {
	if size < 1 {
		size = 1
	}
	return &Stream{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

func (s *Stream) Publish(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.ch <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *Stream) TryPublish(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// Events is the receive side for the consumer loop.
func (s *Stream) Events() <-chan Event {
	return s.ch
}

// Done is closed once Close has been called.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Close stops accepting new events. Buffered events stay readable.
func (s *Stream) Close() {
	s.once.Do(func() { close(s.done) })
}

// Consume reads events until fn returns false, the stream is closed and
// drained, or ctx is done.
func Consume(ctx context.Context, s *Stream, fn func(Event) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.ch:
			if !fn(ev) {
				return nil
			}
		case <-s.done:
			for {
				select {
				case ev := <-s.ch:
					if !fn(ev) {
						return nil
					}
				default:
					return nil
				}
			}
		}
	}
}

// Nop discards everything. Used where no consumer is attached.
type Nop struct{}

func (Nop) Publish(Event) bool    { return false }
func (Nop) TryPublish(Event) bool { return false }
