// Package events provides the refresh bus that tells task lists of one
// browsing context to refetch after a mutation.
package events

import "sync"

// Kind names what happened.
type Kind string

const (
	// TaskCreated is published after a task was created.
	TaskCreated Kind = "created"
	// TaskUpdated is published after a title or completion change.
	TaskUpdated Kind = "updated"
	// TaskDeleted is published after a task was removed.
	TaskDeleted Kind = "deleted"
)

// Event is a refresh notification for one topic.
type Event struct {
	Kind   Kind  `json:"kind"`
	TaskID int64 `json:"taskId,omitempty"`
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus delivers events to the subscribers of a topic. Handlers run
// synchronously in subscription order.
type Bus struct {
	mu     sync.Mutex
	nextID int
	topics map[string][]subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[string][]subscriber)}
}

// Subscribe registers fn for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic string, fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[topic]
	for i, s := range subs {
		if s.id == id {
			b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.topics[topic]) == 0 {
		delete(b.topics, topic)
	}
}

// Publish delivers ev to every subscriber of topic.
func (b *Bus) Publish(topic string, ev Event) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// Stream subscribes a buffered channel to topic. Events are dropped when the
// buffer is full. Calling cancel closes the channel.
func (b *Bus) Stream(topic string, buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	var mu sync.Mutex
	closed := false

	unsubscribe := b.Subscribe(topic, func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		default:
		}
	})

	cancel := func() {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of subscribers of topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}
