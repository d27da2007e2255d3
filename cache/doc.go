// Package cache provides the generic sharded LRU cache used by the frame
// graph's resource allocator to keep GPU objects alive across frames
// instead of recreating them on every devirtualize call.
//
// # ShardedCache[K, V]
//
// A sharded LRU cache with 16 shards, reducing lock contention under
// concurrent access.
//
//	cache := cache.NewSharded[string, int](256, cache.StringHasher)
//	cache.Set("key", 42)
//	value, ok := cache.Get("key")
//
// ShardedCache should not be copied after creation (it contains mutexes).
package cache
