package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation — an
// HTTP API serving several concurrent sweep runs gives each one its own
// prefix so their cached entries never collide.
//
// Example usage:
//
//	runKeyer := NewScopedKeyer(NewDefaultKeyer(), "run:"+runID+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CatalogKey generates a prefixed catalog cache key.
func (k *ScopedKeyer) CatalogKey(digest string) string {
	return k.prefix + k.inner.CatalogKey(digest)
}

// ConstructKey generates a prefixed construct-result cache key.
func (k *ScopedKeyer) ConstructKey(digest string, splittingID, packingID uint64) string {
	return k.prefix + k.inner.ConstructKey(digest, splittingID, packingID)
}
