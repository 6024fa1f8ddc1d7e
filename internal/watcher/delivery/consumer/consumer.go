package consumer

import (
	"context"
	"sync"

	"golang-stock-watcher/internal/watcher/event"
	"golang-stock-watcher/pkg/logger"
	"golang-stock-watcher/pkg/utils"
)

// Handler reacts to one event. Handlers run on the consumer goroutine, one
// event at a time.
type Handler interface {
	Handle(ctx context.Context, ev event.Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev event.Event) error

func (f HandlerFunc) Handle(ctx context.Context, ev event.Event) error {
	return f(ctx, ev)
}

// EventConsumer is the single consumer loop of an event stream. It fans each
// event out to the registered handlers in registration order.
type EventConsumer struct {
	stream   *event.Stream
	handlers []Handler
	logger   *logger.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewEventConsumer creates a new EventConsumer.
func NewEventConsumer(stream *event.Stream, log *logger.Logger, handlers ...Handler) *EventConsumer {
	return &EventConsumer{
		stream:   stream,
		handlers: handlers,
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// Start begins the consumer loop.
func (c *EventConsumer) Start(ctx context.Context) {
	c.logger.Info("Event consumer started", logger.IntField("handlers", len(c.handlers)))
	c.wg.Add(1)
	utils.GoSafe(c.logger, func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Event consumer stopping due to context cancellation")
				c.drain(context.WithoutCancel(ctx))
				return
			case <-c.stopChan:
				c.logger.Info("Event consumer stopping")
				c.drain(context.WithoutCancel(ctx))
				return
			case ev := <-c.stream.Events():
				c.dispatch(ctx, ev)
			}
		}
	})
}

// Stop shuts the loop down after delivering the events already buffered.
func (c *EventConsumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
	c.logger.Info("Event consumer stopped")
}

func (c *EventConsumer) drain(ctx context.Context) {
	for {
		select {
		case ev := <-c.stream.Events():
			c.dispatch(ctx, ev)
		default:
			return
		}
	}
}

func (c *EventConsumer) dispatch(ctx context.Context, ev event.Event) {
	for _, h := range c.handlers {
		if err := h.Handle(ctx, ev); err != nil {
			c.logger.Error("Event handler failed",
				logger.ErrorField(err),
				logger.StringField("kind", string(ev.Kind)),
				logger.StringField("pass_id", ev.PassID))
		}
	}
}
