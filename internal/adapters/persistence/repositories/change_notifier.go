package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// MemoryChangeNotifier fans change events out to in-process subscribers
type MemoryChangeNotifier struct {
	mu          sync.RWMutex
	subscribers map[string]chan ChangeEvent
	closed      bool
}

// NewMemoryChangeNotifier creates a new in-process notifier
func NewMemoryChangeNotifier() *MemoryChangeNotifier {
	return &MemoryChangeNotifier{subscribers: make(map[string]chan ChangeEvent)}
}

// Publish never blocks; a full subscriber misses the event
func (n *MemoryChangeNotifier) Publish(ctx context.Context, event ChangeEvent) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, ch := range n.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber for the lifetime of ctx
func (n *MemoryChangeNotifier) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan ChangeEvent, subscriberBuffer)
	if n.closed {
		close(ch)
		return ch, nil
	}

	id := uuid.New().String()
	n.subscribers[id] = ch

	go func() {
		<-ctx.Done()
		n.remove(id)
	}()

	return ch, nil
}

func (n *MemoryChangeNotifier) remove(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ch, ok := n.subscribers[id]; ok {
		delete(n.subscribers, id)
		close(ch)
	}
}

// Close closes every subscriber channel
func (n *MemoryChangeNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.subscribers {
		delete(n.subscribers, id)
		close(ch)
	}
	n.closed = true
	return nil
}
