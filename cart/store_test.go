package cart

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"strconv"
	"testing"
	"testing/quick"
)

type recordedNote struct {
	level   string
	message string
}

type recorder struct {
	notes []recordedNote
}

func (r *recorder) Notify(level, message string) {
	r.notes = append(r.notes, recordedNote{level, message})
}

func (r *recorder) last() string {
	if len(r.notes) == 0 {
		return ""
	}
	return r.notes[len(r.notes)-1].message
}

type failingStorage struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStorage) Get(string) (string, bool, error) { return "", false, f.getErr }
func (f *failingStorage) Set(string, string) error {
	f.sets++
	return f.setErr
}

// flakyStorage fails the next failGets reads and failSets writes.
type flakyStorage struct {
	*MemoryStorage
	failGets int
	failSets int
}

func (f *flakyStorage) Get(key string) (string, bool, error) {
	if f.failGets > 0 {
		f.failGets--
		return "", false, errors.New("read timeout")
	}
	return f.MemoryStorage.Get(key)
}

func (f *flakyStorage) Set(key, value string) error {
	if f.failSets > 0 {
		f.failSets--
		return errors.New("write timeout")
	}
	return f.MemoryStorage.Set(key, value)
}

func candidate(id string, price float64) Candidate {
	return Candidate{ID: id, Title: "Project " + id, Price: price, Image: "img-" + id}
}

func TestAddItem_ReAddBumpsQuantity(t *testing.T) {
	s := Load(NewMemoryStorage(), nil)

	s.AddItem(candidate("p1-UI", 20))
	s.AddItem(candidate("p1-UI", 20))
	s.AddItem(candidate("p2", 5))

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].ID != "p1-UI" || items[0].Quantity != 2 {
		t.Errorf("expected p1-UI with quantity 2, got %+v", items[0])
	}
	if got := s.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestAddItem_KeepsLockedInPrice(t *testing.T) {
	s := Load(NewMemoryStorage(), nil)
	s.AddItem(Candidate{ID: "p1", Title: "Original", Price: 10, Image: "a"})
	s.AddItem(Candidate{ID: "p1", Title: "Renamed", Price: 99, Image: "b"})

	got := s.Items()[0]
	want := CartItem{ID: "p1", Title: "Original", Price: 10, Image: "a", Quantity: 2}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAddItem_Notifications(t *testing.T) {
	rec := &recorder{}
	s := Load(NewMemoryStorage(), rec)

	s.AddItem(Candidate{ID: "p1", Title: "Chat App", Price: 10})
	if rec.last() != "Added Chat App to cart" {
		t.Errorf("unexpected message %q", rec.last())
	}
	s.AddItem(Candidate{ID: "p1", Title: "Chat App", Price: 10})
	if rec.last() != "Added another Chat App to cart" {
		t.Errorf("unexpected message %q", rec.last())
	}
	for _, n := range rec.notes {
		if n.level != LevelSuccess {
			t.Errorf("expected success level, got %q", n.level)
		}
	}
}

func TestRemoveItem_UnknownIDIsNoop(t *testing.T) {
	rec := &recorder{}
	s := Load(NewMemoryStorage(), rec)
	s.AddItem(candidate("p1", 10))
	before := s.Items()
	notes := len(rec.notes)

	s.RemoveItem("missing")

	if !reflect.DeepEqual(before, s.Items()) {
		t.Errorf("list changed: %+v -> %+v", before, s.Items())
	}
	if len(rec.notes) != notes {
		t.Error("expected no notification for unknown id")
	}
}

func TestRemoveItem_Notifies(t *testing.T) {
	rec := &recorder{}
	s := Load(NewMemoryStorage(), rec)
	s.AddItem(Candidate{ID: "p1", Title: "Weather Bot", Price: 3})
	s.RemoveItem("p1")

	if s.Len() != 0 {
		t.Fatalf("expected empty cart, got %+v", s.Items())
	}
	if rec.last() != "Removed Weather Bot from cart" {
		t.Errorf("unexpected message %q", rec.last())
	}
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		quantity int
		want     int
	}{
		{"raise", "p1", 5, 5},
		{"lower to one", "p1", 1, 1},
		{"zero ignored", "p1", 0, 2},
		{"negative ignored", "p1", -1, 2},
		{"unknown id ignored", "nope", 7, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Load(NewMemoryStorage(), nil)
			s.AddItem(candidate("p1", 10))
			s.AddItem(candidate("p1", 10))

			s.UpdateQuantity(tt.id, tt.quantity)

			items := s.Items()
			if len(items) != 1 {
				t.Fatalf("expected 1 line, got %d", len(items))
			}
			if items[0].Quantity != tt.want {
				t.Errorf("quantity = %d, want %d", items[0].Quantity, tt.want)
			}
		})
	}
}

func TestClear(t *testing.T) {
	rec := &recorder{}
	storage := NewMemoryStorage()
	s := Load(storage, rec)
	s.AddItem(candidate("p1", 10))
	s.AddItem(candidate("p2", 20))

	s.Clear()

	if s.Len() != 0 || s.Total() != 0 || s.Count() != 0 {
		t.Errorf("expected empty cart, got %+v", s.Items())
	}
	if rec.last() != "Cart cleared" {
		t.Errorf("unexpected message %q", rec.last())
	}
	raw, _, _ := storage.Get(StorageKey)
	if raw != "[]" {
		t.Errorf("persisted value = %q, want []", raw)
	}
}

func TestScenario_AddBumpRemove(t *testing.T) {
	s := Load(NewMemoryStorage(), nil)
	c := Candidate{ID: "p1", Title: "X", Price: 10, Image: "i"}

	s.AddItem(c)
	if s.Len() != 1 || s.Items()[0].Quantity != 1 || s.Total() != 10 {
		t.Fatalf("after first add: %+v total=%v", s.Items(), s.Total())
	}

	s.AddItem(c)
	if s.Items()[0].Quantity != 2 || s.Total() != 20 {
		t.Fatalf("after second add: %+v total=%v", s.Items(), s.Total())
	}

	s.RemoveItem("p1")
	if s.Len() != 0 || s.Total() != 0 || s.Count() != 0 {
		t.Fatalf("after remove: %+v total=%v count=%d", s.Items(), s.Total(), s.Count())
	}
}

func TestTotalsMatchItems(t *testing.T) {
	cfg := &quick.Config{MaxCount: 200, Rand: rand.New(rand.NewSource(42))}

	property := func(prices []uint16, quantities []uint8) bool {
		s := Load(NewMemoryStorage(), nil)
		n := min(len(prices), len(quantities))

		var wantTotal float64
		var wantCount int
		for i := 0; i < n; i++ {
			price := float64(prices[i]) / 100
			qty := int(quantities[i]%9) + 1
			id := "p" + strconv.Itoa(i)
			s.AddItem(Candidate{ID: id, Title: id, Price: price})
			s.UpdateQuantity(id, qty)

			wantTotal += price * float64(qty)
			wantCount += qty
		}
		return s.Len() == n && math.Abs(s.Total()-wantTotal) < 1e-6 && s.Count() == wantCount
	}

	if err := quick.Check(property, cfg); err != nil {
		t.Error(err)
	}
}

func TestTotal_DecimalExact(t *testing.T) {
	items := []CartItem{
		{ID: "a", Price: 0.1, Quantity: 3},
		{ID: "b", Price: 0.2, Quantity: 1},
	}
	if got := Total(items); got != 0.5 {
		t.Errorf("Total() = %v, want 0.5", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	s := Load(storage, nil)
	s.AddItem(Candidate{ID: "p1-UI-Code", Title: "Shop (UI, Code)", Price: 70, Image: "https://img/1"})
	s.AddItem(Candidate{ID: "p2", Title: "Blog", Price: 12.5, Image: ""})
	s.AddItem(Candidate{ID: "p2", Title: "Blog", Price: 12.5, Image: ""})

	reloaded := Load(storage, nil)
	if !reflect.DeepEqual(s.Items(), reloaded.Items()) {
		t.Errorf("reloaded %+v, want %+v", reloaded.Items(), s.Items())
	}

	raw, found, _ := storage.Get(StorageKey)
	if !found {
		t.Fatal("expected cart to be persisted")
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("persisted value is not JSON: %v", err)
	}
	for _, key := range []string{"id", "title", "price", "image", "quantity"} {
		if _, ok := decoded[0][key]; !ok {
			t.Errorf("persisted item missing %q", key)
		}
	}
}

func TestLoad_CorruptOrMissingValue(t *testing.T) {
	tests := []struct {
		name  string
		value *string
	}{
		{"missing", nil},
		{"not json", ptr("{not json")},
		{"wrong shape", ptr(`{"id":"p1"}`)},
		{"empty string", ptr("")},
		{"null", ptr("null")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			if tt.value != nil {
				storage.Set(StorageKey, *tt.value)
			}
			s := Load(storage, nil)
			if s.Len() != 0 {
				t.Errorf("expected empty cart, got %+v", s.Items())
			}
			s.AddItem(candidate("p1", 1))
			if s.Count() != 1 {
				t.Error("expected store to remain usable")
			}
		})
	}
}

func TestLoad_DropsMalformedLines(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(StorageKey, `[
		{"id":"ok","title":"Ok","price":5,"image":"","quantity":2},
		{"id":"","title":"No id","price":5,"image":"","quantity":1},
		{"id":"zero","title":"Zero","price":5,"image":"","quantity":0},
		{"id":"ok","title":"Dup","price":9,"image":"","quantity":1}
	]`)

	items := Load(storage, nil).Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %+v", items)
	}
	if items[0].Quantity != 3 || items[0].Title != "Ok" {
		t.Errorf("unexpected line %+v", items[0])
	}
}

func TestReadFailure_KeepsPersistedCart(t *testing.T) {
	storage := &failingStorage{getErr: errors.New("storage unavailable")}
	s := Load(storage, nil)

	s.AddItem(candidate("p1", 4))
	s.AddItem(candidate("p1", 4))
	s.UpdateQuantity("p1", 5)

	if s.Count() != 5 || s.Total() != 20 {
		t.Errorf("in-memory state lost: %+v", s.Items())
	}
	if storage.sets != 0 {
		t.Errorf("wrote %d times over a cart that was never read", storage.sets)
	}
	if !s.Pending() {
		t.Error("expected pending storage work")
	}
}

func TestWriteFailure_KeepsMemoryAndRetries(t *testing.T) {
	storage := &failingStorage{setErr: errors.New("quota exceeded")}
	s := Load(storage, nil)

	s.AddItem(candidate("p1", 4))
	s.AddItem(candidate("p1", 4))

	if s.Count() != 2 {
		t.Errorf("in-memory state lost: %+v", s.Items())
	}
	if storage.sets != 2 {
		t.Errorf("expected a write per mutation, got %d", storage.sets)
	}
	if !s.Pending() {
		t.Fatal("a failed write should leave the store pending")
	}

	storage.setErr = nil
	if err := s.Resync(); err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	if s.Pending() || storage.sets != 3 {
		t.Errorf("pending = %v, sets = %d", s.Pending(), storage.sets)
	}
}

func TestResync_FoldsInPersistedLines(t *testing.T) {
	storage := &flakyStorage{MemoryStorage: NewMemoryStorage()}
	seed := Load(storage, nil)
	seed.AddItem(candidate("a", 1))
	seed.AddItem(candidate("b", 2))

	storage.failGets = 1
	s := Load(storage, nil)
	if s.Len() != 0 {
		t.Fatalf("expected empty cart after failed read, got %+v", s.Items())
	}
	s.AddItem(candidate("b", 2))
	s.AddItem(candidate("c", 3))

	if err := s.Resync(); err != nil {
		t.Fatalf("Resync() error = %v", err)
	}
	items := s.Items()
	if len(items) != 3 || items[0].ID != "a" || items[1].Quantity != 2 || items[2].ID != "c" {
		t.Errorf("merged items = %+v", items)
	}
	if got := Load(storage, nil).Items(); !reflect.DeepEqual(got, items) {
		t.Errorf("persisted %+v, want %+v", got, items)
	}
}

func TestRemoveItem_UnknownIDDoesNotWrite(t *testing.T) {
	storage := &failingStorage{}
	s := Load(storage, nil)
	s.AddItem(candidate("p1", 1))

	s.RemoveItem("missing")

	if storage.sets != 1 {
		t.Errorf("sets = %d, want 1", storage.sets)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s := Load(NewMemoryStorage(), nil)
	s.AddItem(candidate("p1", 10))

	items := s.Items()
	items[0].Quantity = 99

	if s.Items()[0].Quantity != 1 {
		t.Error("mutating Items() result must not change the store")
	}
}

func ptr(s string) *string { return &s }
