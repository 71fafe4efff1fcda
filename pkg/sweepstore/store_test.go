package sweepstore

import (
	"context"
	"os"
	"testing"
)

func testBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "sweepstore")
	if err != nil {
		t.Fatalf("MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	fileStore, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestStoreClaimNextExhaustsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			run, err := store.CreateRun(ctx, "digestA", 2, 3)
			if err != nil {
				t.Fatalf("CreateRun() error = %v", err)
			}

			seen := make(map[[2]uint64]bool)
			for i := 0; i < 6; i++ {
				s, p, done, err := store.ClaimNext(ctx, run.ID)
				if err != nil {
					t.Fatalf("ClaimNext() error = %v", err)
				}
				if done {
					t.Fatalf("ClaimNext() done=true at claim %d, want 6 claims first", i)
				}
				key := [2]uint64{s, p}
				if seen[key] {
					t.Fatalf("ClaimNext() returned duplicate pair %v", key)
				}
				seen[key] = true
			}
			if len(seen) != 6 {
				t.Errorf("claimed %d distinct pairs, want 6", len(seen))
			}

			_, _, done, err := store.ClaimNext(ctx, run.ID)
			if err != nil {
				t.Fatalf("ClaimNext() after exhaustion error = %v", err)
			}
			if !done {
				t.Error("ClaimNext() after exhaustion done=false, want true")
			}

			claimed, err := store.Claimed(ctx, run.ID)
			if err != nil {
				t.Fatalf("Claimed() error = %v", err)
			}
			if claimed < 6 {
				t.Errorf("Claimed() = %d, want >= 6", claimed)
			}
		})
	}
}

func TestStoreGetRunNotFound(t *testing.T) {
	ctx := context.Background()
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.GetRun(ctx, "no-such-run"); err != ErrNotFound {
				t.Errorf("GetRun() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreSetStatus(t *testing.T) {
	ctx := context.Background()
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			run, err := store.CreateRun(ctx, "digestA", 1, 1)
			if err != nil {
				t.Fatalf("CreateRun() error = %v", err)
			}
			if err := store.SetStatus(ctx, run.ID, StatusCompleted); err != nil {
				t.Fatalf("SetStatus() error = %v", err)
			}
			updated, err := store.GetRun(ctx, run.ID)
			if err != nil {
				t.Fatalf("GetRun() error = %v", err)
			}
			if updated.Status != StatusCompleted {
				t.Errorf("Status = %v, want %v", updated.Status, StatusCompleted)
			}
		})
	}
}

func TestRunDecodeIndexRowMajor(t *testing.T) {
	run := &Run{SplittingCandidates: 2, PackingCandidates: 3}
	cases := []struct {
		index              uint64
		wantSplit, wantPack uint64
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
	}
	for _, c := range cases {
		s, p := run.DecodeIndex(c.index)
		if s != c.wantSplit || p != c.wantPack {
			t.Errorf("DecodeIndex(%d) = (%d, %d), want (%d, %d)", c.index, s, p, c.wantSplit, c.wantPack)
		}
	}
}
