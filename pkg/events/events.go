package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// EventType identifies what happened. "lagged" and "heartbeat" are
// synthetic — the bus emits them, nothing publishes them directly.
type EventType string

const (
	EventWorkspaceCreated EventType = "workspace.created"
	EventDocumentCreated  EventType = "document.created"
	EventDocumentUpdated  EventType = "document.updated"
	EventDocumentDeleted  EventType = "document.deleted"
	EventCommentCreated   EventType = "comment.created"
	EventLockAcquired     EventType = "lock.acquired"
	EventLockReleased     EventType = "lock.released"

	eventHeartbeat EventType = "heartbeat"
	eventLagged    EventType = "lagged"
)

const heartbeatInterval = 15 * time.Second

// Event is a structured record published on state changes and streamed to
// subscribers of the workspace it belongs to.
type Event struct {
	Type        EventType      `json:"type"`
	WorkspaceID string         `json:"workspace_id"`
	EntityID    string         `json:"entity_id,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Payload     map[string]any `json:"payload,omitempty"`
}

type subscriber struct {
	ch  chan *Event
	lag int64 // atomic: events dropped for this subscriber since last read
}

// broker fans out events for a single workspace.
type broker struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func newBroker() *broker {
	return &broker{subs: make(map[*subscriber]struct{})}
}

func (b *broker) publish(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		select {
		case sub.ch <- event:
			continue
		default:
		}
		// Channel full: drop the oldest undelivered event for this
		// subscriber, then push the new one. If another goroutine
		// drained first, the send below still succeeds.
		select {
		case <-sub.ch:
			atomic.AddInt64(&sub.lag, 1)
		default:
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

func (b *broker) subscribe() *subscriber {
	sub := &subscriber{ch: make(chan *Event, 64)}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// unsubscribe removes sub and reports whether the broker is now empty.
func (b *broker) unsubscribe(sub *subscriber) (empty bool) {
	b.mu.Lock()
	delete(b.subs, sub)
	empty = len(b.subs) == 0
	b.mu.Unlock()
	return empty
}

func (b *broker) subscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// EventBus is the process-wide registry mapping each workspace to its own
// broker. A workspace with no subscribers has no broker entry at all, so
// Publish against it is a cheap no-op.
type EventBus struct {
	mu      sync.RWMutex
	brokers map[string]*broker
}

// NewEventBus constructs an empty registry.
func NewEventBus() *EventBus {
	return &EventBus{brokers: make(map[string]*broker)}
}

// Publish fans event out to every live subscriber of workspaceID. It never
// blocks the caller.
func (b *EventBus) Publish(workspaceID string, event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.WorkspaceID = workspaceID

	b.mu.RLock()
	br, ok := b.brokers[workspaceID]
	b.mu.RUnlock()
	if !ok {
		return
	}
	br.publish(event)
}

// Subscription is a lazy, infinite stream of events for one workspace. It
// receives only events published after Subscribe returned; there is no
// replay.
type Subscription struct {
	bus         *EventBus
	workspaceID string
	br          *broker
	sub         *subscriber
	closeOnce   sync.Once
}

// Subscribe registers a new subscription for workspaceID, creating the
// broker on first use.
func (b *EventBus) Subscribe(workspaceID string) *Subscription {
	b.mu.Lock()
	br, ok := b.brokers[workspaceID]
	if !ok {
		br = newBroker()
		b.brokers[workspaceID] = br
	}
	b.mu.Unlock()

	return &Subscription{
		bus:         b,
		workspaceID: workspaceID,
		br:          br,
		sub:         br.subscribe(),
	}
}

// Next blocks until an event, a heartbeat, or ctx cancellation. It returns
// (nil, false) only when ctx is done. A non-zero lag count is surfaced as
// a single synthetic "lagged" event before resuming normal delivery.
func (s *Subscription) Next(ctx context.Context) (*Event, bool) {
	if lag := atomic.SwapInt64(&s.sub.lag, 0); lag > 0 {
		return &Event{
			Type:        eventLagged,
			WorkspaceID: s.workspaceID,
			Timestamp:   time.Now(),
			Payload:     map[string]any{"dropped": lag},
		}, true
	}

	select {
	case e := <-s.sub.ch:
		return e, true
	case <-time.After(heartbeatInterval):
		return &Event{Type: eventHeartbeat, WorkspaceID: s.workspaceID, Timestamp: time.Now()}, true
	case <-ctx.Done():
		return nil, false
	}
}

// Close unregisters the subscription. The bus drops the workspace's
// broker once its subscriber count reaches zero.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		empty := s.br.unsubscribe(s.sub)
		if !empty {
			return
		}
		s.bus.mu.Lock()
		if s.br.subscriberCount() == 0 {
			delete(s.bus.brokers, s.workspaceID)
		}
		s.bus.mu.Unlock()
	})
}

// SubscriberCount returns the number of live subscribers for workspaceID.
func (b *EventBus) SubscriberCount(workspaceID string) int {
	b.mu.RLock()
	br, ok := b.brokers[workspaceID]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	return br.subscriberCount()
}

// TotalSubscribers sums subscriber counts across all workspaces, for
// metrics export.
func (b *EventBus) TotalSubscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	for _, br := range b.brokers {
		total += br.subscriberCount()
	}
	return total
}
