package event

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// Topic identifies an event stream, e.g. "history.changed".
type Topic string

// Handler processes a published event. The payload is type-erased; handlers
// type-assert to the payload type published on their topic.
type Handler interface {
	Handle(ctx context.Context, payload any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, payload any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, payload any) error {
	return f(ctx, payload)
}

// DeliveryMode specifies how events reach a handler.
type DeliveryMode int

const (
	// DeliverySync runs the handler in the publisher's goroutine.
	DeliverySync DeliveryMode = iota

	// DeliveryAsync queues the event for a worker goroutine.
	DeliveryAsync
)

// String returns a human-readable delivery mode name.
func (m DeliveryMode) String() string {
	switch m {
	case DeliverySync:
		return "sync"
	case DeliveryAsync:
		return "async"
	default:
		return "unknown"
	}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*Subscription)

// WithDeliveryMode sets the delivery mode. The default is sync.
func WithDeliveryMode(m DeliveryMode) SubscriptionOption {
	return func(s *Subscription) {
		s.mode = m
	}
}

// Subscription is an active registration of a handler on a topic.
type Subscription struct {
	id        string
	topic     Topic
	handler   Handler
	mode      DeliveryMode
	cancelled atomic.Bool
}

func newSubscription(topic Topic, handler Handler, opts ...SubscriptionOption) *Subscription {
	s := &Subscription{
		id:      uuid.NewString(),
		topic:   topic,
		handler: handler,
		mode:    DeliverySync,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Mode returns the delivery mode.
func (s *Subscription) Mode() DeliveryMode {
	return s.mode
}

// IsActive returns true if the subscription can still receive events.
func (s *Subscription) IsActive() bool {
	return !s.cancelled.Load()
}

// Cancel permanently stops event delivery to this subscription.
func (s *Subscription) Cancel() {
	s.cancelled.Store(true)
}
