package cache

// DefaultKeyer derives cache keys by hashing the digest and ID components
// together (spec-adjacent: keys are opaque, only the cache's own Hash
// needs to be collision-resistant).
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped Keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// CatalogKey returns the cache key for the splitting/packing catalogs
// built from the (workload, mapping, arch) triple digest identifies.
func (k *DefaultKeyer) CatalogKey(digest string) string {
	return hashKey("catalog", digest)
}

// ConstructKey returns the cache key for the materialized layout at
// (splittingID, packingID) over the triple digest identifies.
func (k *DefaultKeyer) ConstructKey(digest string, splittingID, packingID uint64) string {
	return hashKey("construct", digest, splittingID, packingID)
}
