// Package store holds the transient, locally mutable copy of the remote
// submission list.
//
// The remote webhook API is the source of truth; Store only caches the last
// successful fetch so the dashboard can filter, page and optimistically
// mutate it. Concurrent loads are coalesced with singleflight, and a failed
// fetch keeps whatever list was already held.
package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

// Fetcher retrieves the full submission list.
type Fetcher interface {
	ListSubmissions(ctx context.Context) ([]domain.Submission, error)
}

// Removal captures a removed submission and where it sat, so a failed remote
// delete can put it back in place.
type Removal struct {
	Submission domain.Submission
	Index      int
}

// Store is safe for concurrent use.
type Store struct {
	fetcher Fetcher
	group   singleflight.Group

	mu        sync.RWMutex
	subs      []domain.Submission
	pending   map[string]struct{}
	loaded    bool
	closed    bool
	version   uint64
	fetchedAt time.Time
}

// New returns an empty Store backed by f.
func New(f Fetcher) *Store {
	return &Store{fetcher: f, pending: make(map[string]struct{})}
}

// Load returns the held list, fetching it first if nothing has been loaded.
func (s *Store) Load(ctx context.Context) ([]domain.Submission, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return s.Snapshot(), nil
	}
	return s.Refresh(ctx)
}

// Refresh refetches the list. Concurrent callers share one request. On error
// the previously held list is kept and returned alongside the error.
func (s *Store) Refresh(ctx context.Context) ([]domain.Submission, error) {
	_, err, _ := s.group.Do("list", func() (any, error) {
		subs, err := s.fetcher.ListSubmissions(ctx)
		if err != nil {
			return nil, err
		}
		s.Replace(subs)
		return nil, nil
	})
	return s.Snapshot(), err
}

// Replace swaps in subs as the held list. Submissions removed by a delete
// that has not settled yet are left out. Ignored after Close.
func (s *Store) Replace(subs []domain.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	cp := make([]domain.Submission, 0, len(subs))
	for _, sub := range subs {
		if _, hidden := s.pending[sub.ID]; !hidden {
			cp = append(cp, sub)
		}
	}
	s.subs = cp
	s.loaded = true
	s.version++
	s.fetchedAt = time.Now()
}

// Snapshot returns a copy of the held list.
func (s *Store) Snapshot() []domain.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Submission, len(s.subs))
	copy(out, s.subs)
	return out
}

// Remove takes the submission with id out of the list and keeps it out of
// later Replace calls until Restore or Settle. The id is held back even when
// it is not in the current list.
func (s *Store) Remove(id string) (Removal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Removal{}, false
	}
	s.pending[id] = struct{}{}
	i := domain.IndexOf(s.subs, id)
	if i < 0 {
		return Removal{}, false
	}
	r := Removal{Submission: s.subs[i], Index: i}
	s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
	s.version++
	return r, true
}

// Restore reinserts a removed submission at its original position, clamped
// to the current length, and settles its id. It is a no-op when the id is
// already present or the store is closed.
func (s *Store) Restore(r Removal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, r.Submission.ID)
	if s.closed || domain.IndexOf(s.subs, r.Submission.ID) >= 0 {
		return
	}
	i := min(max(r.Index, 0), len(s.subs))
	next := make([]domain.Submission, 0, len(s.subs)+1)
	next = append(next, s.subs[:i]...)
	next = append(next, r.Submission)
	next = append(next, s.subs[i:]...)
	s.subs = next
	s.version++
}

// Settle stops holding id back from Replace. Called once the remote delete
// for id has an outcome.
func (s *Store) Settle(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// Pending reports whether id is held back by an unsettled Remove.
func (s *Store) Pending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pending[id]
	return ok
}

// Loaded reports whether a fetch has ever succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Version increases on every change to the held list.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// FetchedAt reports when the list was last replaced.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// Close tears the store down. Later mutations are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
