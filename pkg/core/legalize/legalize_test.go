package legalize

import (
	"context"
	"testing"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/core/workload"
	"github.com/maeri-project/timeloop/pkg/errors"
)

func newLegal(t *testing.T) *Legal {
	t.Helper()
	ranks := []workload.Rank{{Name: "W", Dims: []string{"W"}, Coefficients: []int{1}}}
	dataspaces := []workload.Dataspace{{Name: "DS", Ranks: []string{"W"}, Keep: []bool{true}}}
	ctx, err := workload.NewContext(ranks, dataspaces, map[string]int{"W": 32})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	nest := mapping.LoopNest{
		Loops:                   []mapping.Loop{{Dim: "W", End: 32, Spacetime: mapping.SpatialX}},
		StorageTilingBoundaries: []int{1},
	}
	arch := archspec.List{{Name: "Buf", LineCapacitySpec: 8}}
	return New(ctx, arch, nest)
}

func TestLegalBeforeInit(t *testing.T) {
	lg := newLegal(t)
	if _, err := lg.Concordant(); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Concordant() before Init error = %v, want ErrCodeInternal", err)
	}
	if _, _, err := lg.CatalogSizes(0, "DS"); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("CatalogSizes() before Init error = %v, want ErrCodeInternal", err)
	}
}

func TestLegalFullLifecycle(t *testing.T) {
	lg := newLegal(t)
	if err := lg.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	splitCount, packCount, err := lg.CatalogSizes(0, "DS")
	if err != nil {
		t.Fatalf("CatalogSizes() error = %v", err)
	}
	if splitCount == 0 {
		t.Fatal("expected non-empty splitting catalog for an overflowing slot")
	}
	if packCount != 0 {
		t.Errorf("packCount = %d, want 0 (classification is exclusive)", packCount)
	}

	splitCandidates, packCandidates, err := lg.GlobalSizes()
	if err != nil {
		t.Fatalf("GlobalSizes() error = %v", err)
	}
	if splitCandidates == 0 || packCandidates != 1 {
		t.Errorf("GlobalSizes() = (%d, %d), want (>0, 1)", splitCandidates, packCandidates)
	}

	out, err := lg.Construct(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}
	n, ok := out.Nest(0, "DS")
	if !ok {
		t.Fatal("Nest(0, DS) not found")
	}
	if got := n.IntralineProduct(); got > 8 {
		t.Errorf("IntralineProduct() = %d, want <= 8", got)
	}

	if _, err := lg.Construct(context.Background(), splitCandidates+1, 0); !errors.Is(err, errors.ErrCodeIDOutOfRange) {
		t.Errorf("Construct() out-of-range error = %v, want ErrCodeIDOutOfRange", err)
	}

	seq, err := lg.Sequential()
	if err != nil {
		t.Fatalf("Sequential() error = %v", err)
	}
	sn, _ := seq.Nest(0, "DS")
	if got := sn.IntralineProduct(); got > 8 {
		t.Errorf("Sequential() IntralineProduct() = %d, want <= 8", got)
	}
}

func TestLegalStrictIDBounds(t *testing.T) {
	ranks := []workload.Rank{{Name: "M", Dims: []string{"M"}, Coefficients: []int{1}}}
	dataspaces := []workload.Dataspace{{Name: "DS", Ranks: []string{"M"}, Keep: []bool{true}}}
	ctx, err := workload.NewContext(ranks, dataspaces, map[string]int{"M": 4})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	nest := mapping.LoopNest{
		Loops:                   []mapping.Loop{{Dim: "M", End: 4, Spacetime: mapping.Temporal}},
		StorageTilingBoundaries: []int{1},
	}
	arch := archspec.List{{Name: "Buf", LineCapacitySpec: 16}}

	lg := New(ctx, arch, nest, WithStrictIDBounds(true))
	if err := lg.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	splitCandidates, _, err := lg.GlobalSizes()
	if err != nil {
		t.Fatalf("GlobalSizes() error = %v", err)
	}
	if _, err := lg.Construct(context.Background(), splitCandidates, 0); !errors.Is(err, errors.ErrCodeIDOutOfRange) {
		t.Errorf("strict bounds: Construct(id==candidates) error = %v, want ErrCodeIDOutOfRange", err)
	}
}
