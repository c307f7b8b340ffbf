// Package flash queues transient notifications for display and keeps a
// bounded history of the ones already shown.
package flash

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/marquee/internal/observe"
)

// Type classifies a message.
type Type string

const (
	Success Type = "success"
	Info    Type = "info"
	Warning Type = "warning"
	Danger  Type = "danger"
)

// DefaultHistoryMax bounds the history when no limit is configured.
const DefaultHistoryMax = 100

// Message is a single notification.
type Message struct {
	ID    string    `json:"id"`
	Type  Type      `json:"type"`
	Title string    `json:"title"`
	Text  string    `json:"text,omitempty"`
	Date  time.Time `json:"date"`
}

// Queue holds the messages waiting to be displayed and the history of
// dismissed ones, newest first.
type Queue struct {
	mu         sync.Mutex
	pending    []Message
	history    []Message
	historyMax int
	now        func() time.Time

	observers observe.Set
}

// Option customises a Queue.
type Option func(*Queue)

// WithHistoryMax caps the history length.
func WithHistoryMax(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.historyMax = n
		}
	}
}

// WithClock overrides the time source used to date messages.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// New returns an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		historyMax: DefaultHistoryMax,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue dates msg and appends it to the display queue. The stored message
// is returned.
func (q *Queue) Enqueue(msg Message) Message {
	msg.Date = q.now()
	msg.ID = uuid.NewString()

	q.mu.Lock()
	q.pending = append(q.pending, msg)
	q.mu.Unlock()

	q.observers.Notify()
	return msg
}

// DismissCurrent moves the message at the head of the queue to the front of
// the history. It does nothing when the queue is empty.
func (q *Queue) DismissCurrent() {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}
	head := q.pending[0]
	q.pending = slices.Delete(q.pending, 0, 1)
	q.history = slices.Insert(q.history, 0, head)
	if len(q.history) > q.historyMax {
		q.history = q.history[:q.historyMax]
	}
	q.mu.Unlock()

	q.observers.Notify()
}

// Current returns the message being displayed.
func (q *Queue) Current() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Message{}, false
	}
	return q.pending[0], true
}

// Pending returns the display queue, head first.
func (q *Queue) Pending() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.pending)
}

// History returns dismissed messages, newest first.
func (q *Queue) History() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.history)
}

// RestoreHistory replaces the history with persisted messages.
func (q *Queue) RestoreHistory(msgs []Message) {
	q.mu.Lock()
	q.history = slices.Clone(msgs)
	if len(q.history) > q.historyMax {
		q.history = q.history[:q.historyMax]
	}
	q.mu.Unlock()

	q.observers.Notify()
}

// ClearHistory drops every dismissed message.
func (q *Queue) ClearHistory() {
	q.mu.Lock()
	q.history = nil
	q.mu.Unlock()

	q.observers.Notify()
}

// Subscribe registers fn to run after every change. The returned function
// removes the subscription.
func (q *Queue) Subscribe(fn func()) (cancel func()) {
	return q.observers.Subscribe(fn)
}
