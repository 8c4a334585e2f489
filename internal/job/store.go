package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeCreated  ChangeKind = "created"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeImported ChangeKind = "imported"
)

// Change is delivered to observers after a mutation has been persisted.
type Change struct {
	Kind  ChangeKind `json:"kind"`
	ID    string     `json:"id,omitempty"`
	Total int        `json:"total"`
}

// Store owns the job collection and mirrors it to a Slot after every mutation.
// It is safe for concurrent use.
type Store struct {
	slot  Slot
	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	records   []Record
	observers map[int]func(Change)
	nextObs   int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new record ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open loads the collection from slot. A blob that cannot be decoded is
// logged and replaced by an empty collection; only slot I/O errors fail.
func Open(ctx context.Context, slot Slot, opts ...Option) (*Store, error) {
	s := &Store{
		slot:      slot,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		observers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	s.records = s.decodeSaved(data)
	slog.Debug("job store loaded", "jobs", len(s.records))
	return s, nil
}

// decodeSaved rebuilds the collection from a saved blob. Entries that are
// not well-formed records or repeat an earlier id are dropped with a warning,
// so the loaded collection holds the same guarantees as an imported one.
func (s *Store) decodeSaved(data []byte) []Record {
	if data == nil {
		return []Record{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("job store: saved jobs unreadable, starting empty", "error", err)
		return []Record{}
	}

	stamp := Timestamp(s.now())
	saved := make([]Record, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(item, &m); err != nil || m == nil {
			slog.Warn("job store: dropping saved job", "index", i, "reason", "invalid job data structure")
			continue
		}
		r, reason := recordFrom(m)
		if reason != "" {
			slog.Warn("job store: dropping saved job", "index", i, "reason", reason)
			continue
		}
		if r.ID == "" {
			r.ID = s.newID()
		}
		if seen[r.ID] {
			slog.Warn("job store: dropping saved job", "index", i, "reason", "duplicate id", "id", r.ID)
			continue
		}
		seen[r.ID] = true
		if r.LastUpdated == "" {
			r.LastUpdated = stamp
		}
		saved = append(saved, r)
	}
	return saved
}

// Subscribe registers fn to be called after every persisted mutation.
// Observers run synchronously on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// mutate runs fn against the current collection under the lock. fn returns
// the next collection (built without touching cur) and the change to report;
// a nil change means nothing happened. The next collection replaces the
// current one only after it has been saved.
func (s *Store) mutate(ctx context.Context, fn func(cur []Record) ([]Record, *Change, error)) error {
	s.mu.Lock()
	next, change, err := fn(s.records)
	if err != nil || change == nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.records = next
	change.Total = len(next)

	observers := make([]func(Change), 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	slog.Debug("job store mutated", "kind", change.Kind, "id", change.ID, "total", change.Total)
	for _, o := range observers {
		o(*change)
	}
	return nil
}

func (s *Store) persist(ctx context.Context, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode jobs: %w", err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		return fmt.Errorf("persist jobs: %w", err)
	}
	return nil
}

// Create validates f, assigns a fresh id and lastUpdated and appends the record.
func (s *Store) Create(ctx context.Context, f Fields) (Record, error) {
	if err := validateForStore(f); err != nil {
		return Record{}, err
	}

	var created Record
	err := s.mutate(ctx, func(cur []Record) ([]Record, *Change, error) {
		created = Record{ID: s.newID(), LastUpdated: Timestamp(s.now())}.withFields(f)
		next := append(slices.Clone(cur), created)
		return next, &Change{Kind: ChangeCreated, ID: created.ID}, nil
	})
	if err != nil {
		return Record{}, err
	}
	return created, nil
}

// Update replaces every field of the record with r.ID except the id itself
// and rewrites lastUpdated. It returns ErrNotFound when no record matches.
func (s *Store) Update(ctx context.Context, r Record) (Record, error) {
	f := r.Fields()
	if err := validateForStore(f); err != nil {
		return Record{}, err
	}

	var updated Record
	err := s.mutate(ctx, func(cur []Record) ([]Record, *Change, error) {
		i := slices.IndexFunc(cur, func(x Record) bool { return x.ID == r.ID })
		if i < 0 {
			return nil, nil, ErrNotFound
		}
		next := slices.Clone(cur)
		updated = next[i].withFields(f)
		updated.LastUpdated = Timestamp(s.now())
		next[i] = updated
		return next, &Change{Kind: ChangeUpdated, ID: r.ID}, nil
	})
	if err != nil {
		return Record{}, err
	}
	return updated, nil
}

// Delete removes the record with id. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(cur []Record) ([]Record, *Change, error) {
		next := slices.DeleteFunc(slices.Clone(cur), func(x Record) bool { return x.ID == id })
		if len(next) == len(cur) {
			return nil, nil, nil
		}
		return next, &Change{Kind: ChangeDeleted, ID: id}, nil
	})
}

// Get returns the record with id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// List returns the records matching q, newest appliedDate first.
func (s *Store) List(q Query) []Record {
	return SortByAppliedDate(Filter(s.All(), q))
}

// Stats counts the whole collection per status.
func (s *Store) Stats() Stats {
	return CountByStatus(s.All())
}
