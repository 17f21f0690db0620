package toast

import (
	"fmt"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultDuration matches the storefront's on-screen toast lifetime.
const DefaultDuration = 3 * time.Second

type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Queue is a bounded FIFO of transient notifications. Expired entries are
// pruned lazily on read; when full, the oldest entry is evicted.
type Queue struct {
	mu       sync.Mutex
	toasts   []Toast
	next     int
	capacity int
	now      func() time.Time
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 16
	}
	return &Queue{
		capacity: capacity,
		now:      time.Now,
	}
}

// Push enqueues a toast and returns its id. A non-positive duration means
// the toast stays until dismissed.
func (q *Queue) Push(message string, level Level, duration time.Duration) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := fmt.Sprintf("toast-%d", q.next)
	q.next++

	t := Toast{
		ID:      id,
		Message: message,
		Level:   level,
	}
	if duration > 0 {
		t.ExpiresAt = q.now().Add(duration)
	}

	q.pruneLocked()
	if len(q.toasts) == q.capacity {
		q.toasts = q.toasts[1:]
	}
	q.toasts = append(q.toasts, t)

	return id
}

// Dismiss removes a toast by id. Dismissing an unknown or already removed
// id is a no-op.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return
		}
	}
}

// Active returns the live toasts oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked()
	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

func (q *Queue) pruneLocked() {
	now := q.now()
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if t.ExpiresAt.IsZero() || t.ExpiresAt.After(now) {
			kept = append(kept, t)
		}
	}
	q.toasts = kept
}
