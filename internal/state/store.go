package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/liftoff/internal/favorites"
	"github.com/five82/liftoff/internal/spacex"
)

// OfflineAfter is the number of consecutive failed fetches after which the
// listing is reported as offline.
const OfflineAfter = 2

// Snapshot is the latest favorites listing available to the UI.
type Snapshot struct {
	// IDs are the favorite ids the listing was fetched for, sorted.
	IDs      []string
	Launches []spacex.LaunchListItem
	// Fetched is false until the first successful fetch.
	Fetched             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline reports whether the API has failed OfflineAfter times in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= OfflineAfter
}

// Visible returns the fetched launches that are still in set, in fetch
// order. Rows disappear as soon as they are unfavorited.
func (s Snapshot) Visible(set *favorites.Set) []spacex.LaunchListItem {
	out := make([]spacex.LaunchListItem, 0, len(s.Launches))
	for _, launch := range s.Launches {
		if set.Has(launch.ID) {
			out = append(out, launch)
		}
	}
	return out
}

// Missing returns the ids in set that the listing was not fetched for.
func (s Snapshot) Missing(set *favorites.Set) []string {
	var missing []string
	for _, id := range set.IDs() {
		if _, ok := slices.BinarySearch(s.IDs, id); !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Stale reports whether the listing must be refetched for set. Removing a
// favorite never makes the listing stale.
func (s Snapshot) Stale(set *favorites.Set) bool {
	return !s.Fetched || len(s.Missing(set)) > 0
}

// Store guards the current Snapshot. The zero value is ready to use.
type Store struct {
	// Now stamps updates; nil means time.Now.
	Now func() time.Time

	mu   sync.RWMutex
	snap Snapshot
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Update records the result of one fetch. A nil err replaces the listing
// with launches fetched for ids. A non-nil err keeps the previous listing
// and counts the failure.
func (s *Store) Update(ids []string, launches []spacex.LaunchListItem, err error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.LastUpdated = now
	s.snap.LastError = err
	if err != nil {
		s.snap.ConsecutiveFailures++
		return
	}
	s.snap.ConsecutiveFailures = 0
	s.snap.Fetched = true
	s.snap.IDs = slices.Sorted(slices.Values(ids))
	s.snap.Launches = slices.Clone(launches)
}

// Snapshot returns a copy the caller may modify freely.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	snap.IDs = slices.Clone(s.snap.IDs)
	snap.Launches = slices.Clone(s.snap.Launches)
	return snap
}
