package main

import (
	"log"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
)

// positionStore keeps the last known position per terminal with a TTL,
// so a dormant device ages out instead of pinning memory forever.
type positionStore struct {
	cache *cache.Cache
}

const (
	positionTTL     = 24 * time.Hour
	cleanupInterval = 10 * time.Minute
)

func newPositionStore() *positionStore {
	return &positionStore{
		cache: cache.New(positionTTL, cleanupInterval),
	}
}

func (s *positionStore) update(row locationRow) {
	s.cache.SetDefault(row.Terminal, row)
}

func (s *positionStore) last(terminal string) (locationRow, bool) {
	v, found := s.cache.Get(terminal)
	if !found {
		return locationRow{}, false
	}
	return v.(locationRow), true
}

// dump logs the last known position of every live terminal, used for
// the shutdown summary.
func (s *positionStore) dump() {
	items := s.cache.Items()
	log.Printf("Tracked terminals: %d", len(items))

	terminals := make([]string, 0, len(items))
	for t := range items {
		terminals = append(terminals, t)
	}
	sort.Strings(terminals)

	for _, t := range terminals {
		row := items[t].Object.(locationRow)
		log.Printf("  - %s: (%.6f, %.6f) at %s",
			t, row.Latitude, row.Longitude, row.Time.Format(time.RFC3339))
	}
}
