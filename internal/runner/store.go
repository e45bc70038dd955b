package runner

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store holds in-memory run results: one ordered record list per category
// plus a single slot for the last custom call. Nothing is persisted; a
// category's entry is replaced wholesale each time it is re-run.
type Store struct {
	mu      sync.RWMutex
	results map[string][]ResultRecord
	runIDs  map[string]string
	order   []string
	custom  *ResultRecord
	entropy *rand.Rand
}

// CategoryResults is one category's records within a Snapshot.
type CategoryResults struct {
	Category string
	RunID    string
	Records  []ResultRecord
}

// Snapshot is a consistent copy of the store, categories in first-run order.
type Snapshot struct {
	Categories []CategoryResults
	Custom     *ResultRecord
}

func NewStore() *Store {
	return &Store{
		results: make(map[string][]ResultRecord),
		runIDs:  make(map[string]string),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetCategory replaces a category's records and tags the run with a fresh
// ULID. Returns the run ID.
func (s *Store) SetCategory(category string, records []ResultRecord) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.results[category]; !seen {
		s.order = append(s.order, category)
	}
	copied := make([]ResultRecord, len(records))
	copy(copied, records)
	s.results[category] = copied

	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
	s.runIDs[category] = id
	return id
}

// Category returns a copy of a category's records.
func (s *Store) Category(category string) ([]ResultRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.results[category]
	if !ok {
		return nil, false
	}
	copied := make([]ResultRecord, len(records))
	copy(copied, records)
	return copied, true
}

// SetCustom overwrites the ad-hoc call result.
func (s *Store) SetCustom(record ResultRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom = &record
}

// Custom returns the last ad-hoc call result, if any.
func (s *Store) Custom() (ResultRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.custom == nil {
		return ResultRecord{}, false
	}
	return *s.custom, true
}

// Snapshot copies the full store state for derivation and rendering.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Categories: make([]CategoryResults, 0, len(s.order))}
	for _, category := range s.order {
		records := s.results[category]
		copied := make([]ResultRecord, len(records))
		copy(copied, records)
		snap.Categories = append(snap.Categories, CategoryResults{
			Category: category,
			RunID:    s.runIDs[category],
			Records:  copied,
		})
	}
	if s.custom != nil {
		custom := *s.custom
		snap.Custom = &custom
	}
	return snap
}

// Len reports how many categories hold results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
