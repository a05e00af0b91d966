package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"food-consult-bot/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const DefaultTopic = "chat.inbound"

var _ Submitter = (*Dispatcher)(nil)

// Dispatcher is the single inbound event stream. Adapters Submit events, the
// stream hands each one to the Handler on its own goroutine. Responders cannot
// travel through the pubsub, so they wait in a registry keyed by message id.
type Dispatcher struct {
	pubSub     *gochannel.GoChannel
	topic      string
	handler    Handler
	logger     logger.ILogger
	responders sync.Map
	tasks      sync.WaitGroup
}

func NewDispatcher(pubSub *gochannel.GoChannel, topic string, handler Handler, log logger.ILogger) *Dispatcher {
	return &Dispatcher{
		pubSub:  pubSub,
		topic:   topic,
		handler: handler,
		logger:  log,
	}
}

// Run subscribes to the stream. It returns once the subscription is live;
// delivery stops when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	messages, err := d.pubSub.Subscribe(ctx, d.topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", d.topic, err)
	}

	go func() {
		for msg := range messages {
			d.dispatch(ctx, msg)
		}
	}()

	return nil
}

func (d *Dispatcher) Submit(ev Event, r Responder) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	id := uuid.NewString()
	d.responders.Store(id, r)

	if err := d.pubSub.Publish(d.topic, message.NewMessage(id, payload)); err != nil {
		d.responders.Delete(id)
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, msg *message.Message) {
	// Events are never redelivered, a failed task answers the user itself
	defer msg.Ack()

	value, ok := d.responders.LoadAndDelete(msg.UUID)
	if !ok {
		d.logger.Warn("DISPATCH", "No responder for event", map[string]interface{}{"message_id": msg.UUID})
		return
	}

	var ev Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		d.logger.Error("DISPATCH", "Failed to decode event", map[string]interface{}{"error": err.Error()})
		return
	}

	d.tasks.Add(1)
	go func() {
		defer d.tasks.Done()
		defer func() {
			if rec := recover(); rec != nil {
				d.logger.Error("DISPATCH", "Event handler panicked", map[string]interface{}{
					"error":   fmt.Sprint(rec),
					"user_id": ev.UserID,
					"kind":    ev.Kind,
				})
			}
		}()

		// A started chain runs to completion even if the stream shuts down
		d.handler.Handle(context.WithoutCancel(ctx), ev, value.(Responder))
	}()
}

// Wait blocks until every in-flight task finished.
func (d *Dispatcher) Wait() {
	d.tasks.Wait()
}
