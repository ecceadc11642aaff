// Package notify holds the transient notifications (toasts) of one client.
package notify

import (
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

const (
	// DefaultDuration is how long a notification stays active.
	DefaultDuration = 4000 * time.Millisecond

	topicPushed  = "notification:pushed"
	topicRemoved = "notification:removed"
)

// Notification is one transient message.
type Notification struct {
	ID        string                 `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title,omitempty"`
	Message   string                 `json:"message"`
	Duration  time.Duration          `json:"-"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Timer is the part of *time.Timer the notifier relies on.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDefaultDuration overrides the lifetime of notifications that set none.
func WithDefaultDuration(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.defaultDuration = d
		}
	}
}

// WithAfterFunc replaces the timer factory, mostly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(n *Notifier) {
		if fn != nil {
			n.afterFunc = fn
		}
	}
}

// WithClock overrides the clock used for ExpiresAt.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

// Notifier keeps the active notifications and expires them on timers. It is
// safe for concurrent use; Push never blocks on the network.
type Notifier struct {
	mu              sync.Mutex
	active          []Notification
	timers          map[string]Timer
	closed          bool
	bus             EventBus.Bus
	defaultDuration time.Duration
	afterFunc       AfterFunc
	now             func() time.Time
}

func New(opts ...Option) *Notifier {
	n := &Notifier{
		timers:          make(map[string]Timer),
		bus:             EventBus.New(),
		defaultDuration: DefaultDuration,
		afterFunc:       stdAfterFunc,
		now:             time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Push adds a notification and returns its id.
func (n *Notifier) Push(note Notification) string {
	if !note.Type.IsValid() {
		note.Type = enums.NotificationSuccess
	}
	if note.Duration <= 0 {
		note.Duration = n.defaultDuration
	}
	note.Message = strings.TrimSpace(note.Message)
	note.ID = uuid.NewString()
	note.ExpiresAt = n.now().Add(note.Duration)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return note.ID
	}
	n.active = append(n.active, note)
	id := note.ID
	n.timers[id] = n.afterFunc(note.Duration, func() { n.expire(id) })
	n.mu.Unlock()

	n.bus.Publish(topicPushed, note)
	return note.ID
}

// Success pushes a success notification with the default duration.
func (n *Notifier) Success(message string) string {
	return n.Push(Notification{Type: enums.NotificationSuccess, Message: message})
}

// Error pushes an error notification with the default duration.
func (n *Notifier) Error(message string) string {
	return n.Push(Notification{Type: enums.NotificationError, Message: message})
}

// Remove dismisses a notification early. It reports whether id was active.
func (n *Notifier) Remove(id string) bool {
	n.mu.Lock()
	removed := n.removeLocked(id)
	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}
	n.mu.Unlock()

	if removed {
		n.bus.Publish(topicRemoved, id)
	}
	return removed
}

func (n *Notifier) expire(id string) {
	n.mu.Lock()
	delete(n.timers, id)
	removed := n.removeLocked(id)
	n.mu.Unlock()

	if removed {
		n.bus.Publish(topicRemoved, id)
	}
}

func (n *Notifier) removeLocked(id string) bool {
	for i, note := range n.active {
		if note.ID == id {
			n.active = append(n.active[:i], n.active[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns a snapshot of the notifications still showing, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.active))
	copy(out, n.active)
	return out
}

// Subscribe calls fn synchronously for every pushed notification. The
// returned function unsubscribes.
func (n *Notifier) Subscribe(fn func(Notification)) (func(), error) {
	if err := n.bus.Subscribe(topicPushed, fn); err != nil {
		return nil, err
	}
	return func() { _ = n.bus.Unsubscribe(topicPushed, fn) }, nil
}

// SubscribeRemoved calls fn with the id of every notification that expires or
// is dismissed.
func (n *Notifier) SubscribeRemoved(fn func(id string)) (func(), error) {
	if err := n.bus.Subscribe(topicRemoved, fn); err != nil {
		return nil, err
	}
	return func() { _ = n.bus.Unsubscribe(topicRemoved, fn) }, nil
}

// Close stops every pending expiry timer and drops further pushes. Removal
// subscribers hear about every notification that was still showing.
func (n *Notifier) Close() {
	n.mu.Lock()
	n.closed = true
	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
	dropped := n.active
	n.active = nil
	n.mu.Unlock()

	for _, note := range dropped {
		n.bus.Publish(topicRemoved, note.ID)
	}
}
