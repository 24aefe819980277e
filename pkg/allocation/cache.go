package allocation

import "salesalloc/pkg/allocation/mip"

// cacheKey identifies one solver invocation. The inventory fingerprint keys
// the entry to the exact stock state it was computed against, so an entry is
// never replayed after the inventory has moved on.
type cacheKey struct {
	Showroom    string
	Month       int
	Tolerance   float64
	MaxPct      float64
	Fingerprint uint64
}

// cacheEntry stores the accepted quantities by package code. Only solved
// entries are stored; anything else is recomputed.
type cacheEntry struct {
	Quantities map[string]Quantity
	Status     mip.Status
}

// ResultCache memoizes accepted solver results across repeated runs over the
// same showroom, month and parameter pair.
type ResultCache struct {
	entries map[cacheKey]cacheEntry
}

func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[cacheKey]cacheEntry)}
}

func (c *ResultCache) get(key cacheKey) (cacheEntry, bool) {
	entry, ok := c.entries[key]
	return entry, ok
}

func (c *ResultCache) put(key cacheKey, entry cacheEntry) {
	c.entries[key] = entry
}

// Len reports the number of cached results.
func (c *ResultCache) Len() int {
	return len(c.entries)
}
