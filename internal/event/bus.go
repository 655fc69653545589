package event

import (
	"context"
	"sync"
	"sync/atomic"
)

// Stats contains event bus counters.
type Stats struct {
	// Published is the total number of events published.
	Published uint64

	// Delivered is the number of handler invocations that succeeded.
	Delivered uint64

	// Dropped is the number of async deliveries discarded because the
	// queue was full.
	Dropped uint64

	// HandlerErrors is the number of handler invocations that returned an
	// error.
	HandlerErrors uint64

	// ActiveSubscriptions is the current number of active subscriptions.
	ActiveSubscriptions int
}

// busConfig holds bus construction parameters.
type busConfig struct {
	queueSize   int
	workerCount int
}

// BusOption configures a Bus.
type BusOption func(*busConfig)

// WithQueueSize sets the async queue capacity.
func WithQueueSize(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithWorkerCount sets the number of async delivery workers.
func WithWorkerCount(n int) BusOption {
	return func(c *busConfig) {
		if n > 0 {
			c.workerCount = n
		}
	}
}

func defaultBusConfig() busConfig {
	return busConfig{
		queueSize:   256,
		workerCount: 2,
	}
}

// delivery is one queued async handler invocation.
type delivery struct {
	payload any
	sub     *Subscription
}

// Bus routes published events to topic subscribers. Sync subscribers run in
// the publisher's goroutine; async subscribers are served by a worker pool.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]*Subscription

	queue chan delivery
	quit  chan struct{}
	wg    sync.WaitGroup

	running atomic.Bool
	config  busConfig

	published     atomic.Uint64
	delivered     atomic.Uint64
	dropped       atomic.Uint64
	handlerErrors atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Bus{
		subs:   make(map[Topic][]*Subscription),
		queue:  make(chan delivery, config.queueSize),
		quit:   make(chan struct{}),
		config: config,
	}
}

// Start launches the async delivery workers.
func (b *Bus) Start() error {
	if b.running.Swap(true) {
		return ErrBusAlreadyRunning
	}
	for i := 0; i < b.config.workerCount; i++ {
		b.wg.Add(1)
		go b.worker()
	}
	return nil
}

// Stop shuts the bus down, waiting for queued events to drain or the
// context to expire.
func (b *Bus) Stop(ctx context.Context) error {
	if !b.running.Swap(false) {
		return ErrBusNotRunning
	}
	close(b.quit)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrShutdownTimeout
	}
}

// IsRunning returns true if the bus is running.
func (b *Bus) IsRunning() bool {
	return b.running.Load()
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if topic == "" {
		return nil, ErrInvalidTopic
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := newSubscription(topic, handler, opts...)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	return sub, nil
}

// SubscribeFunc is a convenience wrapper for subscribing with a function.
func (b *Bus) SubscribeFunc(topic Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	return b.Subscribe(topic, fn, opts...)
}

// Unsubscribe cancels a subscription and removes it from the bus.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.topic]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.topic] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers payload to every active subscriber of topic. Sync
// handlers run before Publish returns; async handlers are queued, and
// dropped (counted, not blocked on) when the queue is full.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}
	if topic == "" {
		return ErrInvalidTopic
	}

	b.mu.RLock()
	list := make([]*Subscription, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.RUnlock()

	if len(list) == 0 {
		return nil
	}
	b.published.Add(1)

	for _, sub := range list {
		if !sub.IsActive() {
			continue
		}
		switch sub.mode {
		case DeliverySync:
			if err := sub.handler.Handle(ctx, payload); err != nil {
				b.handlerErrors.Add(1)
			} else {
				b.delivered.Add(1)
			}
		case DeliveryAsync:
			select {
			case b.queue <- delivery{payload: payload, sub: sub}:
			default:
				b.dropped.Add(1)
			}
		}
	}
	return nil
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, list := range b.subs {
		for _, s := range list {
			if s.IsActive() {
				active++
			}
		}
	}
	b.mu.RUnlock()

	return Stats{
		Published:           b.published.Load(),
		Delivered:           b.delivered.Load(),
		Dropped:             b.dropped.Load(),
		HandlerErrors:       b.handlerErrors.Load(),
		ActiveSubscriptions: active,
	}
}

// worker serves queued async deliveries until the bus stops, then drains
// whatever is left in the queue.
func (b *Bus) worker() {
	defer b.wg.Done()
	for {
		select {
		case d := <-b.queue:
			b.deliver(d)
		case <-b.quit:
			for {
				select {
				case d := <-b.queue:
					b.deliver(d)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(d delivery) {
	if !d.sub.IsActive() {
		return
	}
	if err := d.sub.handler.Handle(context.Background(), d.payload); err != nil {
		b.handlerErrors.Add(1)
		return
	}
	b.delivered.Add(1)
}
