// Package notify implements the console's toast and confirmation primitives.
//
// Gateways and controllers emit user feedback exclusively through the
// Notifier and Prompter interfaces. The Center queues toasts per session and
// never drops one: the browser drains them over a poll endpoint and, when
// connected, receives them live over the event socket. Confirmations suspend
// the calling goroutine until the browser resolves the prompt; any dismissal
// counts as a decline.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a toast or confirmation prompt.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Toast is one transient, auto-dismissing message.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Prompt is one open yes/no confirmation.
type Prompt struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier emits a toast for a session.
type Notifier interface {
	Notify(sessionID, message string, severity Severity)
}

// Prompter asks the user of a session a yes/no question. It returns true
// only on an explicit accept; declines, dismissals, and context cancellation
// all return false. Callers treat false as a normal, silent branch.
type Prompter interface {
	Confirm(ctx context.Context, sessionID, title, message string, severity Severity) bool
}

// Pusher delivers an event to a session's connected sockets, if any.
// The Center works fine without one; queued toasts are still drained by poll.
type Pusher interface {
	Push(sessionID string, event any)
}

type pendingPrompt struct {
	prompt    Prompt
	sessionID string
	answer    chan bool
	once      sync.Once
}

func (p *pendingPrompt) resolve(accepted bool) {
	p.once.Do(func() {
		p.answer <- accepted
	})
}

// Center is the shared notification and confirmation helper.
type Center struct {
	mu      sync.Mutex
	queues  map[string][]Toast
	pending map[string]*pendingPrompt
	pusher  Pusher
}

// NewCenter creates a Center. pusher may be nil.
func NewCenter(pusher Pusher) *Center {
	return &Center{
		queues:  make(map[string][]Toast),
		pending: make(map[string]*pendingPrompt),
		pusher:  pusher,
	}
}

// Notify queues a toast for the session and pushes it to any live socket.
// Multiple toasts stack in order; none are dropped.
func (c *Center) Notify(sessionID, message string, severity Severity) {
	if sessionID == "" || message == "" {
		return
	}

	toast := Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.queues[sessionID] = append(c.queues[sessionID], toast)
	pusher := c.pusher
	c.mu.Unlock()

	if pusher != nil {
		pusher.Push(sessionID, socketEvent{Type: "toast", Toast: &toast})
	}
}

// Drain returns and clears the session's queued toasts, oldest first.
func (c *Center) Drain(sessionID string) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	toasts := c.queues[sessionID]
	delete(c.queues, sessionID)
	if toasts == nil {
		toasts = []Toast{}
	}
	return toasts
}

// Confirm opens a prompt for the session and blocks until the browser
// resolves it or ctx is done. Cancellation resolves false.
func (c *Center) Confirm(ctx context.Context, sessionID, title, message string, severity Severity) bool {
	if sessionID == "" {
		return false
	}

	p := &pendingPrompt{
		prompt: Prompt{
			ID:       uuid.NewString(),
			Title:    title,
			Message:  message,
			Severity: severity,
		},
		sessionID: sessionID,
		answer:    make(chan bool, 1),
	}

	c.mu.Lock()
	c.pending[p.prompt.ID] = p
	pusher := c.pusher
	c.mu.Unlock()

	if pusher != nil {
		pusher.Push(sessionID, socketEvent{Type: "confirm", Prompt: &p.prompt})
	}

	defer func() {
		c.mu.Lock()
		delete(c.pending, p.prompt.ID)
		c.mu.Unlock()
	}()

	select {
	case accepted := <-p.answer:
		return accepted
	case <-ctx.Done():
		p.resolve(false)
		return false
	}
}

// Resolve answers an open prompt. It reports whether the prompt was still
// pending and belonged to the given session. Unknown prompt IDs are a no-op
// so a stale dialog cannot answer someone else's question.
func (c *Center) Resolve(sessionID, promptID string, accepted bool) bool {
	c.mu.Lock()
	p, ok := c.pending[promptID]
	c.mu.Unlock()

	if !ok || p.sessionID != sessionID {
		return false
	}
	p.resolve(accepted)
	return true
}

// Pending returns the session's open prompts for initial page render.
func (c *Center) Pending(sessionID string) []Prompt {
	c.mu.Lock()
	defer c.mu.Unlock()

	prompts := []Prompt{}
	for _, p := range c.pending {
		if p.sessionID == sessionID {
			prompts = append(prompts, p.prompt)
		}
	}
	return prompts
}

// DropSession clears the session's toast queue and declines its open
// prompts. Called on logout and session expiry.
func (c *Center) DropSession(sessionID string) {
	c.mu.Lock()
	delete(c.queues, sessionID)
	var dropped []*pendingPrompt
	for id, p := range c.pending {
		if p.sessionID == sessionID {
			dropped = append(dropped, p)
			delete(c.pending, id)
		}
	}
	c.mu.Unlock()

	for _, p := range dropped {
		p.resolve(false)
	}
}

// socketEvent is the wire shape pushed over the event socket.
type socketEvent struct {
	Type   string  `json:"type"`
	Toast  *Toast  `json:"toast,omitempty"`
	Prompt *Prompt `json:"prompt,omitempty"`
}
