package cart

import (
	"log"
	"sort"
	"sync"
	"time"
)

// Default bounds for the session cache.
const (
	DefaultMaxSessions = 10000
	DefaultIdleTTL     = 30 * time.Minute
)

// session is one cached cart. mu serialises whole With calls; refs counts
// callers holding or waiting for it so eviction never drops a live entry.
type session struct {
	mu       sync.Mutex
	store    *Store
	refs     int
	lastUsed time.Time
}

// Provider hands out session carts. It is created once at startup. Each
// session's Store is loaded from storage on first use and then kept in
// memory, so it stays authoritative even when storage reads or writes fail.
// Idle sessions whose state is safely persisted are evicted.
type Provider struct {
	storageFor  func(session string) Storage
	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time

	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithLimits bounds how many carts stay cached and how long an unused one is
// kept. Values <= 0 keep the defaults.
func WithLimits(maxSessions int, idleTTL time.Duration) Option {
	return func(p *Provider) {
		if maxSessions > 0 {
			p.maxSessions = maxSessions
		}
		if idleTTL > 0 {
			p.idleTTL = idleTTL
		}
	}
}

// NewProvider returns a Provider that persists each session through the
// Storage returned by storageFor.
func NewProvider(storageFor func(session string) Storage, opts ...Option) *Provider {
	p := &Provider{
		storageFor:  storageFor,
		maxSessions: DefaultMaxSessions,
		idleTTL:     DefaultIdleTTL,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) acquire(id string) *session {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[id]
	if !ok {
		s = &session{}
		p.sessions[id] = s
	}
	s.refs++
	return s
}

func (p *Provider) release(s *session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.refs--
	s.lastUsed = p.now()
	p.evictLocked()
}

// With runs fn against the session's cart and returns fn's error. The
// session stays locked until fn returns. Storage work left over from an
// earlier failure is retried first.
func (p *Provider) With(id string, notifier Notifier, fn func(*Store) error) error {
	s := p.acquire(id)
	defer p.release(s)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		s.store = Load(p.storageFor(id), Discard)
	} else if s.store.Pending() {
		if err := s.store.Resync(); err != nil {
			log.Printf("cart: session %s still out of sync with storage: %v", id, err)
		}
	}

	s.store.setNotifier(notifier)
	defer s.store.setNotifier(Discard)
	return fn(s.store)
}

// Snapshot returns a copy of the session's items without notifying. A
// session that is not cached is read straight from storage and not cached,
// so read-only page views do not grow the cache.
func (p *Provider) Snapshot(id string) []CartItem {
	p.mu.Lock()
	s, ok := p.sessions[id]
	if ok {
		s.refs++
	}
	p.mu.Unlock()

	if !ok {
		items, _ := restore(p.storageFor(id))
		return items
	}
	defer p.release(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		items, _ := restore(p.storageFor(id))
		return items
	}
	return s.store.Items()
}

// evictLocked drops idle sessions. Sessions past the idle TTL go first; if
// the cache is still over its bound the least recently used idle sessions
// follow. A session whose storage is behind is kept unless a flush succeeds.
func (p *Provider) evictLocked() {
	now := p.now()
	over := len(p.sessions) > p.maxSessions
	if !over && now.Sub(p.lastSweep) < p.idleTTL/4 {
		return
	}
	p.lastSweep = now

	type candidate struct {
		id       string
		lastUsed time.Time
	}
	var idle []candidate
	for id, s := range p.sessions {
		if s.refs > 0 {
			continue
		}
		if now.Sub(s.lastUsed) >= p.idleTTL {
			if p.flushable(s) {
				delete(p.sessions, id)
			}
			continue
		}
		if over {
			idle = append(idle, candidate{id, s.lastUsed})
		}
	}

	if len(p.sessions) <= p.maxSessions {
		return
	}
	sort.Slice(idle, func(i, j int) bool { return idle[i].lastUsed.Before(idle[j].lastUsed) })
	for _, c := range idle {
		if len(p.sessions) <= p.maxSessions {
			return
		}
		if p.flushable(p.sessions[c.id]) {
			delete(p.sessions, c.id)
		}
	}
}

// flushable reports whether s can be dropped without losing state. It is
// only called for sessions nobody holds, so the store is not in use.
func (p *Provider) flushable(s *session) bool {
	if s.store == nil || !s.store.Pending() {
		return true
	}
	return s.store.Resync() == nil
}

// cached is the number of sessions currently held in memory.
func (p *Provider) cached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}
