package calsync

import (
	"sync"

	"github.com/mattismoel/canvascal/types"
	"github.com/mattismoel/canvascal/util"
)

// SyncedSet is the set of assignment IDs pushed to the calendar during the
// current session. It only grows. Membership says a create call succeeded
// once, not that the event still exists.
type SyncedSet struct {
	mu  sync.RWMutex
	ids map[types.ID]struct{}
}

func NewSyncedSet() *SyncedSet {
	return &SyncedSet{ids: make(map[types.ID]struct{})}
}

func (s *SyncedSet) Add(id types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

func (s *SyncedSet) Has(id types.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *SyncedSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the members in ascending order.
func (s *SyncedSet) IDs() []types.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return util.SortedKeys(s.ids)
}
