package notify

import (
	"context"
	"sync"
	"testing"
	"time"
)

type pushRecord struct {
	sessionID string
	event     any
}

type fakePusher struct {
	mu     sync.Mutex
	pushes []pushRecord
}

func (f *fakePusher) Push(sessionID string, event any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, pushRecord{sessionID, event})
}

func (f *fakePusher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func TestNotifyQueuesInOrderAndDrainClears(t *testing.T) {
	c := NewCenter(nil)

	c.Notify("s1", "first", SeverityInfo)
	c.Notify("s1", "second", SeveritySuccess)
	c.Notify("s2", "other session", SeverityError)

	toasts := c.Drain("s1")
	if len(toasts) != 2 {
		t.Fatalf("drained %d toasts, want 2", len(toasts))
	}
	if toasts[0].Message != "first" || toasts[1].Message != "second" {
		t.Errorf("toasts out of order: %v", toasts)
	}
	if toasts[0].ID == "" || toasts[0].ID == toasts[1].ID {
		t.Error("toast IDs not unique")
	}

	if again := c.Drain("s1"); len(again) != 0 {
		t.Errorf("second drain returned %d toasts, want 0", len(again))
	}
	if other := c.Drain("s2"); len(other) != 1 {
		t.Errorf("s2 drain returned %d toasts, want 1", len(other))
	}
}

func TestNotifyIgnoresEmptySessionOrMessage(t *testing.T) {
	c := NewCenter(nil)

	c.Notify("", "orphan", SeverityError)
	c.Notify("s1", "", SeverityError)

	if got := c.Drain("s1"); len(got) != 0 {
		t.Errorf("drained %d toasts, want 0", len(got))
	}
	if got := c.Drain(""); len(got) != 0 {
		t.Errorf("drained %d toasts for empty session, want 0", len(got))
	}
}

func TestNotifyPushesToConnectedSocket(t *testing.T) {
	pusher := &fakePusher{}
	c := NewCenter(pusher)

	c.Notify("s1", "hello", SeverityInfo)

	if pusher.count() != 1 {
		t.Fatalf("pushed %d events, want 1", pusher.count())
	}
	// The toast stays queued as well; polling and socket delivery coexist.
	if got := c.Drain("s1"); len(got) != 1 {
		t.Errorf("drained %d toasts, want 1", len(got))
	}
}

func TestConfirmResolvedAcceptReturnsTrue(t *testing.T) {
	c := NewCenter(nil)

	result := make(chan bool, 1)
	go func() {
		result <- c.Confirm(context.Background(), "s1", "Delete caste?", "This cannot be undone.", SeverityWarning)
	}()

	prompt := waitForPrompt(t, c, "s1")
	if prompt.Title != "Delete caste?" {
		t.Errorf("prompt title = %q", prompt.Title)
	}

	if !c.Resolve("s1", prompt.ID, true) {
		t.Fatal("Resolve returned false for an open prompt")
	}
	if !<-result {
		t.Error("Confirm returned false, want true")
	}
	if pending := c.Pending("s1"); len(pending) != 0 {
		t.Errorf("%d prompts still pending after resolve", len(pending))
	}
}

func TestConfirmDeclineReturnsFalse(t *testing.T) {
	c := NewCenter(nil)

	result := make(chan bool, 1)
	go func() {
		result <- c.Confirm(context.Background(), "s1", "Close poll?", "", SeverityWarning)
	}()

	prompt := waitForPrompt(t, c, "s1")
	c.Resolve("s1", prompt.ID, false)
	if <-result {
		t.Error("Confirm returned true, want false")
	}
}

func TestConfirmContextCancelDeclines(t *testing.T) {
	c := NewCenter(nil)
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan bool, 1)
	go func() {
		result <- c.Confirm(ctx, "s1", "Still there?", "", SeverityWarning)
	}()

	waitForPrompt(t, c, "s1")
	cancel()
	if <-result {
		t.Error("Confirm returned true after cancellation")
	}
}

func TestResolveRejectsWrongSession(t *testing.T) {
	c := NewCenter(nil)

	result := make(chan bool, 1)
	go func() {
		result <- c.Confirm(context.Background(), "s1", "Delete?", "", SeverityWarning)
	}()

	prompt := waitForPrompt(t, c, "s1")
	if c.Resolve("s2", prompt.ID, true) {
		t.Error("Resolve accepted a prompt owned by another session")
	}
	if c.Resolve("s1", "no-such-prompt", true) {
		t.Error("Resolve accepted an unknown prompt ID")
	}

	// The real owner can still answer.
	c.Resolve("s1", prompt.ID, true)
	if !<-result {
		t.Error("owner's resolve did not reach Confirm")
	}
}

func TestDropSessionDeclinesOpenPrompts(t *testing.T) {
	c := NewCenter(nil)
	c.Notify("s1", "pending toast", SeverityInfo)

	result := make(chan bool, 1)
	go func() {
		result <- c.Confirm(context.Background(), "s1", "Delete?", "", SeverityWarning)
	}()
	waitForPrompt(t, c, "s1")

	c.DropSession("s1")

	if <-result {
		t.Error("Confirm returned true after DropSession")
	}
	if got := c.Drain("s1"); len(got) != 0 {
		t.Errorf("drained %d toasts after DropSession, want 0", len(got))
	}
}

func waitForPrompt(t *testing.T, c *Center, sessionID string) Prompt {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if pending := c.Pending(sessionID); len(pending) > 0 {
			return pending[0]
		}
		select {
		case <-deadline:
			t.Fatal("prompt never became pending")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
