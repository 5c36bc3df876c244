package collection

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient user-facing message raised by dispatchers,
// form controllers, and load failures.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Action    string    `json:"action,omitempty"`
	RecordID  string    `json:"record_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification builds a notification with a fresh id.
func NewNotification(level Level, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// Center fans notifications out to in-process subscribers and keeps an
// active list with timer-driven auto-dismiss.
type Center struct {
	mu      sync.RWMutex
	active  []Notification
	subs    map[int]chan Notification
	next    int
	dismiss time.Duration
	closed  bool
}

// NewCenter creates a notification center. Notifications auto-dismiss after
// the given duration; zero disables auto-dismiss.
func NewCenter(dismissAfter time.Duration) *Center {
	return &Center{
		subs:    make(map[int]chan Notification),
		dismiss: dismissAfter,
	}
}

// Notify satisfies the Notifier interface: records the notification as
// active, broadcasts it, and schedules its dismissal.
func (c *Center) Notify(_ context.Context, n Notification) {
	if c == nil {
		return
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.active = append(c.active, n)
	for _, ch := range c.subs {
		select {
		case ch <- n:
		default:
		}
	}
	c.mu.Unlock()
	if c.dismiss > 0 {
		id := n.ID
		time.AfterFunc(c.dismiss, func() { c.Dismiss(id) })
	}
}

// Active returns the notifications not yet dismissed, oldest first.
func (c *Center) Active() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Notification, len(c.active))
	copy(out, c.active)
	return out
}

// Dismiss removes a notification from the active list.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

// Subscribe returns a channel of notifications and a cancel func.
func (c *Center) Subscribe() (<-chan Notification, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	ch := make(chan Notification, 8)
	c.subs[id] = ch
	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close drops the active list and closes all subscriber channels.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.active = nil
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) {}

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
