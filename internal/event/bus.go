package event

import (
	"context"
	"errors"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// PanicHandler is called when a handler panics. The panic is already recovered.
type PanicHandler func(ev Event, perr *PanicError)

// Option configures a Bus.
type Option func(*Bus)

// WithPanicHandler sets the panic handler for the bus.
func WithPanicHandler(h PanicHandler) Option {
	return func(b *Bus) {
		b.panicHandler = h
	}
}

// Stats contains event bus statistics.
type Stats struct {
	// EventsPublished is the total number of events published.
	EventsPublished uint64

	// HandlersExecuted is the total number of handler executions.
	HandlersExecuted uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscribers is the current number of subscriptions.
	ActiveSubscribers int

	// TotalDeliveryTime is the cumulative time spent in handlers.
	TotalDeliveryTime time.Duration
}

// Bus delivers events synchronously to subscribers whose pattern matches.
type Bus struct {
	mu      sync.RWMutex
	subs    []*Subscription
	nextSeq uint64

	panicHandler PanicHandler

	depth atomic.Int32

	eventsPublished  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
	totalDeliveryNs  atomic.Int64
}

// NewBus creates a new synchronous event bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for every topic matching pattern.
func (b *Bus) Subscribe(pattern Topic, h Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if h == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	sub := newSubscription(pattern, h, b.nextSeq, opts)
	b.subs = append(b.subs, sub)

	// Stable order: priority first, then registration order.
	sort.SliceStable(b.subs, func(i, j int) bool {
		if b.subs[i].config.Priority != b.subs[j].config.Priority {
			return b.subs[i].config.Priority < b.subs[j].config.Priority
		}
		return b.subs[i].seq < b.subs[j].seq
	})

	return sub, nil
}

// SubscribeFunc registers a handler function for every topic matching pattern.
func (b *Bus) SubscribeFunc(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	if !b.remove(sub) {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (b *Bus) remove(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Emit builds an event and publishes it.
func (b *Bus) Emit(ctx context.Context, t Topic, payload any, source string) error {
	return b.Publish(ctx, NewEvent(t, payload, source))
}

// Publish delivers ev to every matching subscriber before returning.
// Handler errors and recovered panics are joined into the returned error;
// a failing handler never prevents delivery to the remaining ones.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if !ev.Topic.IsValid() || ev.Topic.IsWildcard() {
		return ErrInvalidTopic
	}

	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.shouldDeliver(ev) {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	ev.Metadata.Sequence = b.eventsPublished.Add(1)
	ev.Metadata.Depth = int(b.depth.Add(1))
	defer b.depth.Add(-1)

	var errs []error
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		// A handler earlier in this delivery may have cancelled it.
		if !sub.IsActive() {
			continue
		}

		if err := b.deliver(ctx, ev, sub); err != nil {
			errs = append(errs, err)
			continue
		}

		if sub.config.Once {
			sub.Cancel()
			b.remove(sub)
		}
	}

	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, ev Event, sub *Subscription) (err error) {
	start := time.Now()
	b.handlersExecuted.Add(1)

	defer func() {
		b.totalDeliveryNs.Add(time.Since(start).Nanoseconds())
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			perr := &PanicError{
				SubscriptionID: sub.id,
				Topic:          ev.Topic,
				Value:          r,
				Stack:          string(debug.Stack()),
			}
			if b.panicHandler != nil {
				b.panicHandler(ev, perr)
			}
			err = perr
		}
	}()

	if herr := sub.handler.Handle(ctx, ev); herr != nil {
		b.handlerErrors.Add(1)
		return &HandlerError{SubscriptionID: sub.id, Topic: ev.Topic, Err: herr}
	}
	return nil
}

// Depth returns how many Publish calls are currently on the stack.
// It is non-zero exactly while handlers are running.
func (b *Bus) Depth() int {
	return int(b.depth.Load())
}

// Len returns the number of registered subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats returns bus statistics.
func (b *Bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.Len(),
		TotalDeliveryTime: time.Duration(b.totalDeliveryNs.Load()),
	}
}
