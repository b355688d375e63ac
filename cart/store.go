package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"
)

// errUnsynced is returned by persistLocked while the persisted list has not
// been read yet. Writing then would replace a cart we never saw.
var errUnsynced = errors.New("cart: persisted cart not read yet")

// Store is the single owner of a session's cart items. Every public method is
// atomic and persists the full list before it returns. Storage failures are
// logged and never surface to callers; the in-memory list stays authoritative.
type Store struct {
	mu       sync.Mutex
	items    []CartItem
	storage  Storage
	notifier Notifier

	// synced is false while the persisted list could not be read. No write
	// happens until Resync succeeds.
	synced bool
	// dirty is set when the last write failed.
	dirty bool
}

// Load restores a Store from storage. A missing value or a value that does
// not decode as a list of items yields an empty cart. A read error also
// yields an empty cart, but one that does not persist until Resync manages
// to read the stored list.
func Load(storage Storage, notifier Notifier) *Store {
	if notifier == nil {
		notifier = Discard
	}
	s := &Store{storage: storage, notifier: notifier}
	s.items, s.synced = restore(storage)
	return s
}

// restore reads the persisted list. ok is false only when the read failed.
func restore(storage Storage) (items []CartItem, ok bool) {
	if storage == nil {
		return nil, true
	}
	raw, found, err := storage.Get(StorageKey)
	if err != nil {
		log.Printf("cart: could not read persisted cart, starting empty: %v", err)
		return nil, false
	}
	if !found {
		return nil, true
	}
	return decodeItems(raw), true
}

func decodeItems(raw string) []CartItem {
	if raw == "" {
		return nil
	}

	var decoded []CartItem
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		log.Printf("cart: persisted cart is corrupt, starting empty: %v", err)
		return nil
	}

	// Drop malformed lines and fold duplicate ids so the one-line-per-id
	// invariant holds even for hand-edited values.
	items := make([]CartItem, 0, len(decoded))
	index := make(map[string]int, len(decoded))
	for _, it := range decoded {
		if it.ID == "" || it.Quantity < 1 || it.Price < 0 {
			continue
		}
		if i, ok := index[it.ID]; ok {
			items[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	return items
}

// Resync retries the pending storage work: reading the persisted list after
// a failed read, or rewriting it after a failed write. Lines added while the
// list was unreadable are folded into the persisted ones.
func (s *Store) Resync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.synced {
		raw, found, err := s.storage.Get(StorageKey)
		if err != nil {
			return fmt.Errorf("cart: resync read: %w", err)
		}
		var persisted []CartItem
		if found {
			persisted = decodeItems(raw)
		}
		pending := len(s.items) > 0
		s.items = mergeItems(persisted, s.items)
		s.synced = true
		if !pending {
			return nil
		}
		return s.persistLocked()
	}
	if s.dirty {
		return s.persistLocked()
	}
	return nil
}

// Pending reports whether storage still lags behind the in-memory list.
func (s *Store) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.synced || s.dirty
}

func (s *Store) setNotifier(n Notifier) {
	if n == nil {
		n = Discard
	}
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

// mergeItems appends extra to base, bumping the quantity of lines base
// already holds. base keeps its titles and prices.
func mergeItems(base, extra []CartItem) []CartItem {
	out := make([]CartItem, len(base), len(base)+len(extra))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i, it := range out {
		index[it.ID] = i
	}
	for _, it := range extra {
		if i, ok := index[it.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

// AddItem appends c with quantity 1, or bumps the quantity of the line that
// already carries c.ID. An existing line keeps its title and locked-in price.
func (s *Store) AddItem(c Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == c.ID {
			next := s.cloneLocked()
			next[i].Quantity++
			s.commitLocked(next)
			s.notifier.Notify(LevelSuccess, fmt.Sprintf("Added another %s to cart", c.Title))
			return
		}
	}

	next := append(s.cloneLocked(), CartItem{
		ID:       c.ID,
		Title:    c.Title,
		Price:    c.Price,
		Image:    c.Image,
		Quantity: 1,
	})
	s.commitLocked(next)
	s.notifier.Notify(LevelSuccess, fmt.Sprintf("Added %s to cart", c.Title))
}

// RemoveItem deletes the line with id. Unknown ids are ignored.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed *CartItem
	next := make([]CartItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID == id {
			removed = &it
			continue
		}
		next = append(next, it)
	}
	if removed == nil {
		return
	}
	s.commitLocked(next)
	s.notifier.Notify(LevelSuccess, fmt.Sprintf("Removed %s from cart", removed.Title))
}

// UpdateQuantity sets the quantity of the line with id. Quantities below 1
// and unknown ids are ignored; use RemoveItem to drop a line.
func (s *Store) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			next := s.cloneLocked()
			next[i].Quantity = quantity
			s.commitLocked(next)
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitLocked(nil)
	s.notifier.Notify(LevelSuccess, "Cart cleared")
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneLocked()
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total is the sum of price × quantity over all lines, recomputed per call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.items)
}

// Count is the sum of quantities over all lines, recomputed per call.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Count(s.items)
}

// Total sums price × quantity with decimal arithmetic so that cent values
// do not accumulate binary rounding error.
func Total(items []CartItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.InexactFloat64()
}

// Count sums the quantities of items.
func Count(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func (s *Store) cloneLocked() []CartItem {
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// commitLocked swaps in next and writes it through to storage.
func (s *Store) commitLocked(next []CartItem) {
	s.items = next
	if err := s.persistLocked(); err != nil {
		log.Printf("cart: could not persist cart, keeping in-memory state: %v", err)
	}
}

func (s *Store) persistLocked() error {
	if s.storage == nil {
		return nil
	}
	if !s.synced {
		return errUnsynced
	}

	list := s.items
	if list == nil {
		list = []CartItem{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Set(StorageKey, string(data)); err != nil {
		s.dirty = true
		return err
	}
	s.dirty = false
	return nil
}
