package models

// CacheEntry is the envelope stored under a cache key.
type CacheEntry struct {
	Key        string `json:"key"`
	CreatedAt  int64  `json:"timestamp"`
	TTLSeconds int64  `json:"ttlSeconds"`
	Payload    Record `json:"data"`
}

// CacheStats reports cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
