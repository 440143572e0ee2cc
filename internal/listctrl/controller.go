// Package listctrl implements the list controller every console screen runs
// on: one object owning the screen's search/filter/page state, its current
// collection, and the mutation flow around it. Screens differ only in the
// gateway they fetch from and the fields they render.
package listctrl

import (
	"context"
	"sync"
	"time"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/notify"
)

// State is the controller's fetch lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// Fetcher loads one page for the query; it is the gateway's list operation.
type Fetcher[T any] func(ctx context.Context, q domain.ListQuery) (*domain.PagedCollection[T], error)

// Options tunes a controller.
type Options struct {
	// Debounce is the quiet period after the last keystroke before a search
	// fetch fires. Zero means the 500ms default.
	Debounce time.Duration
	// PageSize is the page size the screen starts with. Zero means 10.
	PageSize int
}

// Controller owns one screen's list state. All methods are safe for
// concurrent use; the mutex is never held across a gateway call, so a new
// trigger can start while an earlier fetch is still in flight. When fetches
// overlap, the last one to resolve wins — acceptable at human input rates.
type Controller[T any] struct {
	fetch     Fetcher[T]
	notifier  notify.Notifier
	prompter  notify.Prompter
	sessionID string
	debounce  time.Duration

	mu         sync.Mutex
	query      domain.ListQuery
	collection domain.PagedCollection[T]
	state      State
	loading    bool
	disposed   bool

	timer         *time.Timer
	pendingSearch string
	pendingCtx    context.Context
}

// New creates a Controller in the Idle state with the default query
// (page 1, configured page size, empty search).
func New[T any](fetch Fetcher[T], notifier notify.Notifier, prompter notify.Prompter, sessionID string, opts Options) *Controller[T] {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	return &Controller[T]{
		fetch:      fetch,
		notifier:   notifier,
		prompter:   prompter,
		sessionID:  sessionID,
		debounce:   debounce,
		query:      domain.DefaultListQuery(pageSize),
		collection: domain.EmptyCollection[T](pageSize),
		state:      StateIdle,
	}
}

// Activate runs the initial fetch. Safe to call again; it simply refetches.
func (c *Controller[T]) Activate(ctx context.Context) {
	c.refresh(ctx)
}

// Search feeds one keystroke's worth of search text. The fetch fires only
// after the debounce window passes without another call, and it resets the
// page to 1 before fetching.
func (c *Controller[T]) Search(ctx context.Context, text string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.pendingSearch = text
	// The request context dies when the HTTP request ends, which is before
	// the debounce fires. Keep its values, drop its cancellation.
	c.pendingCtx = context.WithoutCancel(ctx)
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.fireSearch)
	c.mu.Unlock()
}

// fireSearch applies the pending search once the input has gone quiet.
func (c *Controller[T]) fireSearch() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.query.Search = c.pendingSearch
	c.query.Page = 1
	ctx := c.pendingCtx
	c.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	c.refresh(ctx)
}

// SetFilter applies an entity filter immediately (no debounce) and resets
// the page to 1. An empty value clears the filter.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.query = c.query.WithFilter(key, value)
	c.query.Page = 1
	c.mu.Unlock()

	c.refresh(ctx)
}

// SetPage moves to the requested page. Page changes bypass the debounce and
// leave search and filters untouched; the server clamps out-of-range pages.
func (c *Controller[T]) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.query.Page = page
	c.mu.Unlock()

	c.refresh(ctx)
}

// SetPageSize changes the page size and starts over from page 1.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) {
	if size < 1 {
		return
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.query.Limit = size
	c.query.Page = 1
	c.mu.Unlock()

	c.refresh(ctx)
}

// Refresh refetches the current query.
func (c *Controller[T]) Refresh(ctx context.Context) {
	c.refresh(ctx)
}

// refresh runs one fetch cycle: Loading, gateway call, then Loaded with the
// new collection or Error keeping the previous one. The loading flag clears
// on every path. Results arriving after Dispose are dropped.
func (c *Controller[T]) refresh(ctx context.Context) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.state = StateLoading
	query := c.query
	c.mu.Unlock()

	page, err := c.fetch(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.loading = false
	if err != nil {
		// The gateway already told the user; keep what we had.
		c.state = StateError
		return
	}
	c.collection = *page
	c.state = StateLoaded
}

// MutationOptions shapes one mutation's confirmation and success feedback.
type MutationOptions struct {
	// ConfirmTitle/ConfirmMessage, when set, gate the mutation behind a
	// yes/no prompt. A decline is a silent no-op.
	ConfirmTitle    string
	ConfirmMessage  string
	ConfirmSeverity notify.Severity
	// SuccessMessage is shown exactly once after the operation succeeds.
	SuccessMessage string
}

// Mutate runs one mutation through the shared flow: optional confirmation,
// the gateway operation, then on success one toast and one refetch. On
// failure the gateway has already notified, so nothing further is shown and
// the list is left alone.
func (c *Controller[T]) Mutate(ctx context.Context, opts MutationOptions, op func(ctx context.Context) error) error {
	if opts.ConfirmTitle != "" || opts.ConfirmMessage != "" {
		severity := opts.ConfirmSeverity
		if severity == "" {
			severity = notify.SeverityWarning
		}
		if !c.prompter.Confirm(ctx, c.sessionID, opts.ConfirmTitle, opts.ConfirmMessage, severity) {
			return nil
		}
	}

	if err := op(ctx); err != nil {
		return err
	}

	if opts.SuccessMessage != "" {
		c.notifier.Notify(c.sessionID, opts.SuccessMessage, notify.SeveritySuccess)
	}
	c.refresh(ctx)
	return nil
}

// Collection returns the current collection.
func (c *Controller[T]) Collection() domain.PagedCollection[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collection
}

// Query returns the current query state.
func (c *Controller[T]) Query() domain.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Loading reports whether a fetch is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// State returns the controller's lifecycle state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispose tears the controller down: pending debounce timers stop and any
// in-flight fetch result is dropped instead of being applied.
func (c *Controller[T]) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
