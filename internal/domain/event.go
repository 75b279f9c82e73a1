package domain

import (
	"context"
	"fmt"
	"sync"
	"time"
)

//go:generate mockgen -destination mocks/mock_event_bus.go -package mocks github.com/Waypost/waypost/internal/domain EventBus

// EventType identifies a domain event.
type EventType string

const (
	EventMessageReceived   EventType = "message.received"
	EventMessageStatus     EventType = "message.status"
	EventConversationNew   EventType = "conversation.new"
	EventContactOptedOut   EventType = "contact.opted_out"
	EventTemplateStatus    EventType = "template.status"
	EventCampaignScheduled EventType = "campaign.scheduled"
	EventCampaignPaused    EventType = "campaign.paused"
	EventCampaignCompleted EventType = "campaign.completed"
	EventKillSwitchTripped EventType = "killswitch.tripped"
)

// EventPayload carries an event and the entity it concerns.
type EventPayload struct {
	Type        EventType              `json:"type"`
	WorkspaceID string                 `json:"workspace_id"`
	EntityID    string                 `json:"entity_id"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EventHandler processes a single event.
type EventHandler func(ctx context.Context, payload EventPayload)

// EventAckCallback reports the outcome once every subscriber has run.
type EventAckCallback func(err error)

// EventBus decouples services that emit events from the ones reacting to
// them. Handlers run asynchronously.
type EventBus interface {
	// Publish fans the event out to subscribers without waiting for them.
	Publish(ctx context.Context, event EventPayload)

	// PublishWithAck fans the event out and invokes callback after every
	// subscriber finished, with their aggregated errors if any.
	PublishWithAck(ctx context.Context, event EventPayload, callback EventAckCallback)

	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler)

	// Unsubscribe removes a previously registered handler.
	Unsubscribe(eventType EventType, handler EventHandler)
}

// handlerTimeout bounds how long a single subscriber may hold up an
// acknowledged publish.
const handlerTimeout = 5 * time.Second

// InMemoryEventBus is the in-process EventBus used by the app. Events do not
// survive a restart; anything that must is persisted by the emitting service
// before publishing.
type InMemoryEventBus struct {
	subscribers map[EventType][]EventHandler
	mu          sync.RWMutex
}

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[EventType][]EventHandler),
	}
}

// Publish sends an event to all subscribers without waiting.
func (b *InMemoryEventBus) Publish(ctx context.Context, event EventPayload) {
	b.PublishWithAck(ctx, event, nil)
}

// PublishWithAck sends an event to all subscribers, invoking callback once
// they have all completed, timed out, or panicked.
func (b *InMemoryEventBus) PublishWithAck(ctx context.Context, event EventPayload, callback EventAckCallback) {
	b.mu.RLock()
	handlers := b.subscribers[event.Type]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		if callback != nil {
			callback(nil)
		}
		return
	}

	if callback == nil {
		// Fire and forget, panics are contained but not reported.
		for _, handler := range handlers {
			go func(h EventHandler) {
				defer func() {
					if r := recover(); r != nil {
						fmt.Printf("ERROR: Panic in event handler: %v\n", r)
					}
				}()
				h(ctx, event)
			}(handler)
		}
		return
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(handlers))

	wg.Add(len(handlers))
	for _, handler := range handlers {
		go func(h EventHandler) {
			defer wg.Done()
			if err := runHandler(ctx, h, event); err != nil {
				errCh <- err
			}
		}(handler)
	}

	go func() {
		wg.Wait()
		close(errCh)

		var allErrors []error
		for err := range errCh {
			allErrors = append(allErrors, err)
		}
		if len(allErrors) == 0 {
			callback(nil)
			return
		}

		errMsg := fmt.Sprintf("%d errors occurred processing event", len(allErrors))
		for i, err := range allErrors {
			errMsg += fmt.Sprintf("\n  %d: %v", i+1, err)
		}
		callback(fmt.Errorf("%s", errMsg))
	}()
}

// runHandler invokes h under a deadline, converting panics and timeouts into
// errors.
func runHandler(ctx context.Context, h EventHandler, event EventPayload) error {
	handlerCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	done := make(chan struct{})
	var panicErr error

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("panic in event handler: %v", r)
			}
		}()
		h(handlerCtx, event)
	}()

	select {
	case <-done:
		return panicErr
	case <-handlerCtx.Done():
		return fmt.Errorf("event handler timed out: %v", handlerCtx.Err())
	}
}

// Subscribe registers a handler for an event type.
func (b *InMemoryEventBus) Subscribe(eventType EventType, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Unsubscribe removes a handler for an event type. Matching is by the stored
// slot's address, which only works for handlers captured at Subscribe time.
func (b *InMemoryEventBus) Unsubscribe(eventType EventType, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, exists := b.subscribers[eventType]
	if !exists {
		return
	}

	for i, h := range handlers {
		if &h == &handler {
			handlers[i] = handlers[len(handlers)-1]
			b.subscribers[eventType] = handlers[:len(handlers)-1]
			break
		}
	}
}
