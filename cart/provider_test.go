package cart

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestProvider_SharesStoragePerSession(t *testing.T) {
	storages := map[string]*MemoryStorage{}
	var mu sync.Mutex
	p := NewProvider(func(session string) Storage {
		mu.Lock()
		defer mu.Unlock()
		if storages[session] == nil {
			storages[session] = NewMemoryStorage()
		}
		return storages[session]
	})

	p.With("a", nil, func(s *Store) error {
		s.AddItem(candidate("p1", 10))
		return nil
	})
	p.With("b", nil, func(s *Store) error {
		s.AddItem(candidate("p2", 3))
		return nil
	})

	if got := Count(p.Snapshot("a")); got != 1 {
		t.Errorf("session a count = %d, want 1", got)
	}
	if items := p.Snapshot("b"); len(items) != 1 || items[0].ID != "p2" {
		t.Errorf("session b items = %+v", items)
	}
	if items := p.Snapshot("c"); len(items) != 0 {
		t.Errorf("new session should be empty, got %+v", items)
	}
}

func TestProvider_ConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	storage := NewMemoryStorage()
	p := NewProvider(func(string) Storage { return storage })

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.With("s", nil, func(s *Store) error {
				s.AddItem(candidate("p1", 2))
				return nil
			})
		}()
	}
	wg.Wait()

	items := p.Snapshot("s")
	if len(items) != 1 || items[0].Quantity != workers {
		t.Errorf("expected one line with quantity %d, got %+v", workers, items)
	}
}

func TestProvider_FailedWriteKeepsCart(t *testing.T) {
	storage := &flakyStorage{MemoryStorage: NewMemoryStorage(), failSets: 1}
	p := NewProvider(func(string) Storage { return storage })

	p.With("s", nil, func(s *Store) error {
		s.AddItem(candidate("p1", 10))
		return nil
	})

	if items := p.Snapshot("s"); len(items) != 1 || items[0].ID != "p1" {
		t.Fatalf("after failed write, next request sees %+v", items)
	}

	// the next request retries the write
	p.With("s", nil, func(*Store) error { return nil })
	if items, _ := restore(storage); len(items) != 1 {
		t.Errorf("persisted items = %+v, want p1", items)
	}
}

func TestProvider_TransientReadDoesNotWipeCart(t *testing.T) {
	storage := &flakyStorage{MemoryStorage: NewMemoryStorage()}
	first := NewProvider(func(string) Storage { return storage })
	for _, id := range []string{"a", "b", "c"} {
		first.With("s", nil, func(s *Store) error {
			s.AddItem(candidate(id, 1))
			return nil
		})
	}

	// a fresh process hits one read failure on its first request
	p := NewProvider(func(string) Storage { return storage })
	storage.failGets = 1
	p.With("s", nil, func(s *Store) error {
		s.AddItem(candidate("d", 1))
		return nil
	})

	if items, _ := restore(storage); len(items) != 3 {
		t.Fatalf("persisted cart was overwritten: %+v", items)
	}

	p.With("s", nil, func(*Store) error { return nil })
	items := p.Snapshot("s")
	if len(items) != 4 || items[3].ID != "d" {
		t.Errorf("items after resync = %+v", items)
	}
	if persisted, _ := restore(storage); len(persisted) != 4 {
		t.Errorf("persisted items = %+v", persisted)
	}
}

func TestProvider_SnapshotDoesNotCache(t *testing.T) {
	p := NewProvider(func(string) Storage { return NewMemoryStorage() })

	for i := 0; i < 10000; i++ {
		p.Snapshot("visitor-" + strconv.Itoa(i))
	}

	if n := p.cached(); n != 0 {
		t.Errorf("cached sessions after one-off visits = %d, want 0", n)
	}
}

func TestProvider_EvictsBeyondLimit(t *testing.T) {
	storages := map[string]*MemoryStorage{}
	var mu sync.Mutex
	p := NewProvider(func(session string) Storage {
		mu.Lock()
		defer mu.Unlock()
		if storages[session] == nil {
			storages[session] = NewMemoryStorage()
		}
		return storages[session]
	}, WithLimits(10, time.Hour))

	for i := 0; i < 100; i++ {
		p.With("s"+strconv.Itoa(i), nil, func(s *Store) error {
			s.AddItem(candidate("p", 1))
			return nil
		})
	}

	if n := p.cached(); n > 10 {
		t.Errorf("cached sessions = %d, want at most 10", n)
	}
	if items := p.Snapshot("s0"); len(items) != 1 {
		t.Errorf("evicted session lost its cart: %+v", items)
	}
}

func TestProvider_EvictsIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewProvider(func(string) Storage { return NewMemoryStorage() }, WithLimits(100, time.Minute))
	p.now = func() time.Time { return now }

	p.With("old", nil, func(*Store) error { return nil })
	now = now.Add(2 * time.Minute)
	p.With("new", nil, func(*Store) error { return nil })

	if n := p.cached(); n != 1 {
		t.Errorf("cached sessions = %d, want 1", n)
	}
}

func TestProvider_KeepsUnflushedSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	storage := &failingStorage{setErr: errors.New("down")}
	p := NewProvider(func(string) Storage { return storage }, WithLimits(100, time.Minute))
	p.now = func() time.Time { return now }

	p.With("s", nil, func(s *Store) error {
		s.AddItem(candidate("p1", 1))
		return nil
	})
	now = now.Add(time.Hour)
	p.With("other", nil, func(*Store) error { return nil })

	if items := p.Snapshot("s"); len(items) != 1 {
		t.Errorf("unpersisted cart was evicted: %+v", items)
	}
}

func TestProvider_NotifierIsPerCall(t *testing.T) {
	p := NewProvider(func(string) Storage { return NewMemoryStorage() })
	first, second := &recorder{}, &recorder{}

	p.With("s", first, func(s *Store) error {
		s.AddItem(candidate("p1", 1))
		return nil
	})
	p.With("s", second, func(s *Store) error {
		s.AddItem(candidate("p1", 1))
		return nil
	})

	if len(first.notes) != 1 || len(second.notes) != 1 {
		t.Errorf("notes = %d / %d, want 1 / 1", len(first.notes), len(second.notes))
	}
	if second.last() != "Added another Project p1 to cart" {
		t.Errorf("second note = %q", second.last())
	}
}
