package listctrl

import (
	"sync"
	"time"
)

// Disposable is what the registry stores: anything with controller teardown.
type Disposable interface {
	Dispose()
}

type registryEntry struct {
	controller Disposable
	sessionID  string
	lastSeen   time.Time
}

// Registry holds the live controllers, one per (session, screen) pair.
// Controllers a session stops touching are disposed after the TTL, and
// logout drops a session's controllers at once.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewRegistry creates a registry whose janitor disposes idle controllers
// after ttl. Close stops the janitor.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &Registry{
		entries: make(map[string]*registryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go r.janitor()
	return r
}

func registryKey(sessionID, screen string) string {
	return sessionID + "/" + screen
}

// Get returns the session's controller for the screen, building it on first
// use. Every call refreshes the entry's idle clock.
func (r *Registry) Get(sessionID, screen string, build func() Disposable) Disposable {
	key := registryKey(sessionID, screen)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		e.lastSeen = time.Now()
		return e.controller
	}

	c := build()
	r.entries[key] = &registryEntry{
		controller: c,
		sessionID:  sessionID,
		lastSeen:   time.Now(),
	}
	return c
}

// DropSession disposes and removes every controller owned by the session.
func (r *Registry) DropSession(sessionID string) {
	r.mu.Lock()
	var dropped []Disposable
	for key, e := range r.entries {
		if e.sessionID == sessionID {
			dropped = append(dropped, e.controller)
			delete(r.entries, key)
		}
	}
	r.mu.Unlock()

	for _, c := range dropped {
		c.Dispose()
	}
}

// Len reports how many controllers are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close stops the janitor and disposes everything.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })

	r.mu.Lock()
	var dropped []Disposable
	for key, e := range r.entries {
		dropped = append(dropped, e.controller)
		delete(r.entries, key)
	}
	r.mu.Unlock()

	for _, c := range dropped {
		c.Dispose()
	}
}

func (r *Registry) janitor() {
	interval := r.ttl / 2
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			r.mu.Lock()
			var expired []Disposable
			for key, e := range r.entries {
				if now.Sub(e.lastSeen) > r.ttl {
					expired = append(expired, e.controller)
					delete(r.entries, key)
				}
			}
			r.mu.Unlock()

			for _, c := range expired {
				c.Dispose()
			}
		}
	}
}
