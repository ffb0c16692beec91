package pbs

import (
	"fmt"

	cache "github.com/patrickmn/go-cache"
)

// targetSet tracks which transactions an attacker has already targeted,
// in O(1) instead of the original's linear scan over targetTransactions.
// Entries never expire on their own — they are cleared explicitly by
// clearAttacks in lockstep with the co-indexed transaction slices, so we
// pass cache.NoExpiration and skip the cleanup goroutine entirely.
type targetSet struct {
	c *cache.Cache
}

func newTargetSet() *targetSet {
	return &targetSet{c: cache.New(cache.NoExpiration, cache.NoExpiration)}
}

func targetKey(t *Transaction) string {
	return fmt.Sprintf("%p", t)
}

func (s *targetSet) has(t *Transaction) bool {
	_, ok := s.c.Get(targetKey(t))
	return ok
}

func (s *targetSet) add(t *Transaction) {
	s.c.Set(targetKey(t), struct{}{}, cache.NoExpiration)
}

func (s *targetSet) clear() {
	s.c.Flush()
}
