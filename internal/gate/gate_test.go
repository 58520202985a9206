package gate

import (
	"testing"
	"time"
)

const (
	okChat  int64 = -100
	badChat int64 = -200
	user    int64 = 7
)

// fixed returns a Gate whose clock is controlled by the returned setter.
func fixed(t *testing.T, cooldown time.Duration) (*Gate, func(time.Time)) {
	t.Helper()
	g := New(okChat, cooldown)
	now := time.Unix(1_700_000_000, 0)
	g.now = func() time.Time { return now }
	return g, func(tm time.Time) { now = tm }
}

func TestTryConsume_CooldownWindow(t *testing.T) {
	g, setNow := fixed(t, time.Minute)
	start := time.Unix(1_700_000_000, 0)

	if !g.TryConsume(user, okChat) {
		t.Fatal("first attempt must be allowed")
	}
	setNow(start.Add(30 * time.Second))
	if g.TryConsume(user, okChat) {
		t.Fatal("attempt inside cooldown must be rejected")
	}
	setNow(start.Add(time.Minute))
	if !g.TryConsume(user, okChat) {
		t.Fatal("attempt after cooldown must be allowed")
	}
}

func TestTryConsume_RejectionDoesNotResetWindow(t *testing.T) {
	g, setNow := fixed(t, time.Minute)
	start := time.Unix(1_700_000_000, 0)

	if !g.TryConsume(user, okChat) {
		t.Fatal("first attempt must be allowed")
	}
	// Hammering inside the window must not push it forward.
	for i := 1; i <= 5; i++ {
		setNow(start.Add(time.Duration(i*10) * time.Second))
		if g.TryConsume(user, okChat) {
			t.Fatalf("attempt %d inside cooldown allowed", i)
		}
	}
	setNow(start.Add(time.Minute))
	if !g.TryConsume(user, okChat) {
		t.Fatal("cooldown measured from the last allowed attempt, not the last rejection")
	}
}

func TestTryConsume_ForeignChatAlwaysRejected(t *testing.T) {
	g, setNow := fixed(t, time.Minute)
	start := time.Unix(1_700_000_000, 0)

	if g.TryConsume(user, badChat) {
		t.Fatal("foreign chat must be rejected")
	}
	if g.Len() != 0 {
		t.Fatal("foreign-chat attempt must not create a visitor")
	}

	// Foreign-chat rejection must not consume or reset the cooldown: after
	// an allowed attempt, a foreign-chat attempt, then an in-window
	// authorized attempt, the original window still gates.
	if !g.TryConsume(user, okChat) {
		t.Fatal("authorized first attempt must be allowed")
	}
	setNow(start.Add(10 * time.Second))
	if g.TryConsume(user, badChat) {
		t.Fatal("foreign chat must be rejected regardless of timing")
	}
	if g.TryConsume(user, okChat) {
		t.Fatal("authorized attempt still inside the original window must be rejected")
	}
	setNow(start.Add(time.Minute))
	if !g.TryConsume(user, okChat) {
		t.Fatal("original window must expire on schedule")
	}
}

func TestTryConsume_PerUserIsolation(t *testing.T) {
	g, _ := fixed(t, time.Minute)

	if !g.TryConsume(1, okChat) {
		t.Fatal("user 1 first attempt must be allowed")
	}
	if !g.TryConsume(2, okChat) {
		t.Fatal("user 2 must not be gated by user 1")
	}
}

func TestTryConsume_NoBurstCredit(t *testing.T) {
	g, setNow := fixed(t, time.Minute)
	start := time.Unix(1_700_000_000, 0)

	if !g.TryConsume(user, okChat) {
		t.Fatal("first attempt must be allowed")
	}
	// A long idle period earns at most one token.
	setNow(start.Add(10 * time.Minute))
	if !g.TryConsume(user, okChat) {
		t.Fatal("attempt after long idle must be allowed")
	}
	if g.TryConsume(user, okChat) {
		t.Fatal("idle time must not accrue burst credit")
	}
}

func TestVisitorEviction(t *testing.T) {
	g, setNow := fixed(t, time.Minute)
	start := time.Unix(1_700_000_000, 0)

	g.TryConsume(user, okChat)
	if g.Len() != 1 {
		t.Fatalf("visitors = %d, want 1", g.Len())
	}

	// Age the entry past the TTL, then force a GC pass.
	setNow(start.Add(time.Hour))
	g.cleanupN = cleanupEvery - 1
	g.TryConsume(99, okChat)
	if g.Len() != 1 {
		t.Fatalf("stale visitor not evicted, visitors = %d", g.Len())
	}
}
