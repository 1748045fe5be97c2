package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/teslashibe/go-affect/internal/log"
)

// Subscriber is anything that can take queued messages. Each websocket Client
// is one; tests use plain channels.
type Subscriber interface {
	queue() chan Message
}

// Hub maintains the set of active subscribers and broadcasts messages to them.
type Hub struct {
	name   string
	logger *slog.Logger

	subscribers map[Subscriber]bool

	broadcast  chan Message
	register   chan Subscriber
	unregister chan Subscriber

	// mu guards the subscriber count for readers outside the run loop.
	mu      sync.RWMutex
	count   int
	running bool
}

// New creates a new Hub.
func New(name string) *Hub {
	return &Hub{
		name:        name,
		logger:      log.With("hub", name),
		subscribers: make(map[Subscriber]bool),
		broadcast:   make(chan Message, 256),
		register:    make(chan Subscriber),
		unregister:  make(chan Subscriber),
	}
}

// Run owns the subscriber set until ctx is done, then closes every queue.
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer func() {
		for s := range h.subscribers {
			close(s.queue())
			delete(h.subscribers, s)
		}
		h.mu.Lock()
		h.running = false
		h.count = 0
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case s := <-h.register:
			h.subscribers[s] = true
			h.setCount(len(h.subscribers))
			h.logger.Debug("subscriber connected", "total", len(h.subscribers))

		case s := <-h.unregister:
			if _, ok := h.subscribers[s]; ok {
				delete(h.subscribers, s)
				close(s.queue())
			}
			h.setCount(len(h.subscribers))
			h.logger.Debug("subscriber disconnected", "remaining", len(h.subscribers))

		case msg := <-h.broadcast:
			for s := range h.subscribers {
				select {
				case s.queue() <- msg:
				default:
					// Too slow to keep up; drop it.
					close(s.queue())
					delete(h.subscribers, s)
					h.logger.Warn("dropped slow subscriber")
				}
			}
			h.setCount(len(h.subscribers))
		}
	}
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// Broadcast queues a message for every subscriber. It never blocks; when the
// broadcast buffer is full the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast buffer full, dropping message", "topic", msg.Topic)
	}
}

// BroadcastJSON encodes v and broadcasts it under topic.
func (h *Hub) BroadcastJSON(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(Message{Topic: topic, Data: data})
	return nil
}

// Subscribe registers s. It blocks until the run loop accepts it.
func (h *Hub) Subscribe(ctx context.Context, s Subscriber) error {
	select {
	case h.register <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unsubscribe removes s and closes its queue.
func (h *Hub) Unsubscribe(ctx context.Context, s Subscriber) {
	select {
	case h.unregister <- s:
	case <-ctx.Done():
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// IsRunning reports whether Run is active.
func (h *Hub) IsRunning() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// Queue is a bare channel subscriber.
type Queue chan Message

func (q Queue) queue() chan Message { return q }
