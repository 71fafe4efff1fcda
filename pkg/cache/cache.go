// Package cache memoizes the core's two expensive, pure outputs — a
// (workload, mapping, arch) triple's catalogs, and a single materialized
// (splitting_id, packing_id) construct result — so an outer sweep driver
// searching millions of candidate IDs does not recompute either one twice
// (spec §5, SPEC_FULL.md's domain-stack expansion).
package cache

import (
	"context"
	"time"
)

// Cache stores and retrieves opaque byte payloads by key, with optional
// expiration. Implementations: FileCache (local CLI runs), RedisCache
// (shared multi-worker sweeps), NullCache (caching disabled).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives deterministic cache keys from a (workload, mapping, arch)
// digest (see Digest) plus, for a construct result, the ID pair that
// picked it.
type Keyer interface {
	CatalogKey(digest string) string
	ConstructKey(digest string, splittingID, packingID uint64) string
}
