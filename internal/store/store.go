// Package store owns the lost and found collections and their snapshot file.
//
// Records are append-only. IDs are the 1-based insertion rank inside a
// collection, so the scheme is only sound while nothing is ever deleted and a
// single process writes the snapshot.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"campus-lostfound/internal/items"
	"campus-lostfound/internal/storage"
)

var ErrPersist = errors.New("snapshot not persisted")

// PersistError reports that a record was stored in memory but the snapshot
// write failed. The record is not rolled back.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return fmt.Sprintf("%v: %v", ErrPersist, e.Err) }

func (e *PersistError) Unwrap() []error { return []error{ErrPersist, e.Err} }

type Option func(*Store)

// WithClock overrides the source of record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	mu    sync.RWMutex
	repo  storage.SnapshotRepository
	now   func() time.Time
	lost  []items.Item
	found []items.Item
}

// New returns an empty store. repo may be nil, in which case nothing is persisted.
func New(repo storage.SnapshotRepository, opts ...Option) *Store {
	s := &Store{repo: repo, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces both collections with the persisted snapshot. On failure the
// collections are left empty and the error is returned for logging only.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lost, s.found = nil, nil
	if s.repo == nil {
		return nil
	}
	snap, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.lost = append([]items.Item(nil), snap.Lost...)
	s.found = append([]items.Item(nil), snap.Found...)
	return nil
}

func (s *Store) CreateLost(f items.Fields) (items.Item, error) {
	return s.Create(items.KindLost, f)
}

func (s *Store) CreateFound(f items.Fields) (items.Item, error) {
	return s.Create(items.KindFound, f)
}

// Create appends a record to the collection of the given kind and writes the
// snapshot. Fields are stored as given; validation belongs to the caller.
// The returned item is always valid. A non-nil error is either
// items.ErrUnknownKind (nothing stored) or a *PersistError (stored, not durable).
func (s *Store) Create(kind items.Kind, f items.Fields) (items.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, err := s.collection(kind)
	if err != nil {
		return items.Item{}, err
	}
	item := items.Item{
		ID:           len(*coll) + 1,
		ReporterName: f.ReporterName,
		Contact:      f.Contact,
		Category:     f.Category,
		Description:  f.Description,
		Location:     f.Location,
		Timestamp:    s.now().Format(items.TimestampLayout),
	}
	*coll = append(*coll, item)

	if s.repo != nil {
		snap := items.Snapshot{
			Lost:  append([]items.Item(nil), s.lost...),
			Found: append([]items.Item(nil), s.found...),
		}
		if err := s.repo.Save(snap); err != nil {
			return item, &PersistError{Err: err}
		}
	}
	return item, nil
}

func (s *Store) collection(kind items.Kind) (*[]items.Item, error) {
	switch kind {
	case items.KindLost:
		return &s.lost, nil
	case items.KindFound:
		return &s.found, nil
	default:
		return nil, fmt.Errorf("%w: %q", items.ErrUnknownKind, kind)
	}
}

// Items returns a copy of one collection in insertion order.
func (s *Store) Items(kind items.Kind) []items.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, err := s.collection(kind)
	if err != nil {
		return nil
	}
	return append([]items.Item{}, (*coll)...)
}

func (s *Store) Lost() []items.Item  { return s.Items(items.KindLost) }
func (s *Store) Found() []items.Item { return s.Items(items.KindFound) }

func (s *Store) Stats() items.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := items.Stats{
		Lost:            len(s.lost),
		Found:           len(s.found),
		Total:           len(s.lost) + len(s.found),
		LostByCategory:  make(map[string]int),
		FoundByCategory: make(map[string]int),
	}
	for _, it := range s.lost {
		st.LostByCategory[it.Category]++
	}
	for _, it := range s.found {
		st.FoundByCategory[it.Category]++
	}
	return st
}

// Recent merges both collections and returns up to n entries ordered by ID,
// highest first. On equal IDs lost entries come before found ones.
func (s *Store) Recent(n int) []items.Activity {
	s.mu.RLock()
	all := make([]items.Activity, 0, len(s.lost)+len(s.found))
	for _, it := range s.lost {
		all = append(all, items.Activity{Kind: items.KindLost, Item: it})
	}
	for _, it := range s.found {
		all = append(all, items.Activity{Kind: items.KindFound, Item: it})
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
