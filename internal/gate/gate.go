// Package gate implements the per-user refresh cooldown for the single
// authorized chat.
//
// Each user gets a token bucket with one token refilled once per cooldown
// period, which collapses to a strict cooldown: the first refresh is
// allowed, further attempts are rejected until the cooldown since the last
// allowed attempt has elapsed, and a rejected attempt never pushes the
// window forward. No burst credit accrues while a user is idle.
//
// The visitor table is process-local and bounded: idle entries are evicted
// after a TTL via opportunistic cleanup during lookups.
package gate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// cleanupEvery is the number of lookups between opportunistic GC passes
// over the visitor table.
const cleanupEvery = 1024

// visitor holds one user's limiter and the last time it was consulted.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Gate is a per-user refresh cooldown scoped to one authorized chat.
// It is safe for concurrent use.
type Gate struct {
	authorizedChat int64
	cooldown       time.Duration
	ttl            time.Duration

	mu       sync.Mutex
	visitors map[int64]*visitor
	cleanupN uint64

	now func() time.Time // test seam
}

// New constructs a Gate for the given authorized chat. Attempts from any
// other chat are rejected unconditionally. Cooldown values <= 0 are
// coerced to one minute.
func New(authorizedChat int64, cooldown time.Duration) *Gate {
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	ttl := 10 * time.Minute
	if 2*cooldown > ttl {
		ttl = 2 * cooldown
	}
	return &Gate{
		authorizedChat: authorizedChat,
		cooldown:       cooldown,
		ttl:            ttl,
		visitors:       make(map[int64]*visitor),
		now:            time.Now,
	}
}

// TryConsume reports whether userID may refresh right now.
//
// A request from a non-authorized chat is rejected before any state is
// touched, so it can neither start nor reset a user's cooldown. For the
// authorized chat the user's bucket is consulted: an allowed attempt
// consumes the token (starting the next cooldown window), a rejected one
// leaves the window unchanged.
func (g *Gate) TryConsume(userID, chatID int64) bool {
	if chatID != g.authorizedChat {
		return false
	}

	now := g.now()

	g.mu.Lock()
	// GC before touching the requested visitor so a stale bucket can be
	// evicted even when it is the one being fetched.
	g.cleanupN++
	if g.cleanupN >= cleanupEvery {
		for id, v := range g.visitors {
			if now.Sub(v.lastSeen) >= g.ttl {
				delete(g.visitors, id)
			}
		}
		g.cleanupN = 0
	}

	v, ok := g.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(g.cooldown), 1)}
		g.visitors[userID] = v
	}
	v.lastSeen = now
	lim := v.limiter
	g.mu.Unlock()

	return lim.AllowN(now, 1)
}

// Len returns the current number of tracked users. Intended for tests and
// diagnostics.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.visitors)
}
