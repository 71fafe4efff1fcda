package cache

import (
	"testing"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/core/workload"
)

func fixtureTriple(t *testing.T, bound int) (*workload.Context, mapping.LoopNest, archspec.List) {
	t.Helper()
	ranks := []workload.Rank{{Name: "W", Dims: []string{"W"}, Coefficients: []int{1}}}
	dataspaces := []workload.Dataspace{{Name: "DS", Ranks: []string{"W"}, Keep: []bool{true}}}
	ctx, err := workload.NewContext(ranks, dataspaces, map[string]int{"W": bound})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	nest := mapping.LoopNest{
		Loops:                   []mapping.Loop{{Dim: "W", End: bound, Spacetime: mapping.SpatialX}},
		StorageTilingBoundaries: []int{1},
	}
	arch := archspec.List{{Name: "Buf", LineCapacitySpec: 8}}
	return ctx, nest, arch
}

func TestDigestDeterministic(t *testing.T) {
	ctx, nest, arch := fixtureTriple(t, 32)
	d1 := Digest(ctx, nest, arch)
	d2 := Digest(ctx, nest, arch)
	if d1 != d2 {
		t.Errorf("Digest() not deterministic: %s != %s", d1, d2)
	}
}

func TestDigestDiffersOnBoundChange(t *testing.T) {
	ctx1, nest1, arch1 := fixtureTriple(t, 32)
	ctx2, nest2, arch2 := fixtureTriple(t, 64)
	if Digest(ctx1, nest1, arch1) == Digest(ctx2, nest2, arch2) {
		t.Error("different dimension bounds should produce different digests")
	}
}
