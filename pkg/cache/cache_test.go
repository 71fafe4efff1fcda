package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// CatalogKey depends only on the digest.
	ck1 := k.CatalogKey("digestA")
	ck2 := k.CatalogKey("digestB")
	if ck1 == ck2 {
		t.Error("different digests should produce different catalog keys")
	}

	// ConstructKey should include the ID pair in the hash.
	rk1 := k.ConstructKey("digestA", 0, 0)
	rk2 := k.ConstructKey("digestA", 1, 0)
	if rk1 == rk2 {
		t.Error("different splitting IDs should produce different construct keys")
	}
	if rk1 == ck1 {
		t.Error("catalog and construct keys must not collide for the same digest")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "run:123:")

	catalogKey := scoped.CatalogKey("digestA")
	if !strings.HasPrefix(catalogKey, "run:123:") {
		t.Errorf("ScopedKeyer CatalogKey should be prefixed: %s", catalogKey)
	}

	constructKey := scoped.ConstructKey("digestA", 0, 0)
	if !strings.HasPrefix(constructKey, "run:123:") {
		t.Errorf("ScopedKeyer ConstructKey should be prefixed: %s", constructKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.CatalogKey("digestA")
	if key != "prefix:"+NewDefaultKeyer().CatalogKey("digestA") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

