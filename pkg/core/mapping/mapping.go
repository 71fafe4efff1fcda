package mapping

import "github.com/maeri-project/timeloop/pkg/errors"

// Spacetime distinguishes the loop's execution mode: spatially unrolled
// across parallel compute/storage instances, or temporally iterated.
type Spacetime int

const (
	// Temporal loops iterate over time; their extent contributes to the
	// interline (lines-spanned) side of a rank's tile.
	Temporal Spacetime = iota
	// SpatialX loops are spatially unrolled along one physical axis.
	SpatialX
	// SpatialY loops are spatially unrolled along a second physical axis.
	SpatialY
)

// IsSpatial reports whether the spacetime dimension is spatial (X or Y).
// Spatial loops contribute to the intraline side of a rank's tile (spec §4.1).
func (s Spacetime) IsSpatial() bool {
	return s == SpatialX || s == SpatialY
}

func (s Spacetime) String() string {
	switch s {
	case Temporal:
		return "temporal"
	case SpatialX:
		return "spatial-X"
	case SpatialY:
		return "spatial-Y"
	default:
		return "unknown"
	}
}

// Loop is one entry in the flattened loop nest: it iterates dimension Dim
// from 0 to End-1, in the given Spacetime mode.
type Loop struct {
	Dim       string
	End       int
	Spacetime Spacetime
}

// LoopNest is the flat, ordered sequence of loops from innermost to
// outermost, plus the storage-tiling boundaries that carve it into
// per-level tiles.
//
// Loops is ordered innermost-first to match spec §4.1 step 1 ("Walk the
// loop nest from innermost to outermost").
//
// StorageTilingBoundaries holds one loop index per storage level, indexed
// innermost-first like [github.com/maeri-project/timeloop/pkg/core/archspec.List]
// (level 0 is closest to the compute). Entry l is the exclusive upper bound,
// in Loops indices, of the loops that belong to level l or any more-inner
// level: Loops[0:boundaries[l]] are at or inside level l, the rest are
// outside it. The slice is monotonically non-decreasing (spec §6), and its
// last entry always equals len(Loops) — the outermost level accumulates
// whatever loops remain.
type LoopNest struct {
	Loops                   []Loop
	StorageTilingBoundaries []int
}

// BypassNest carries, per dataspace name, the keep/bypass bit at each
// storage level — the "datatype_bypass_nest[ds].test(level)" input named in
// spec §6. This is the Mapping-side input contract; pkg/config applies it
// onto workload.Dataspace.Keep when building a workload.Context.
type BypassNest map[string][]bool

// Test reports whether dataspace ds is kept (true) or bypassed (false) at
// the given storage level. Levels beyond the configured slice, or an
// unconfigured dataspace, default to kept.
func (b BypassNest) Test(ds string, level int) bool {
	keep, ok := b[ds]
	if !ok || level < 0 || level >= len(keep) {
		return true
	}
	return keep[level]
}

// Validate checks the structural invariants spec §6 requires of a mapping:
// boundaries must be non-decreasing and in range.
func (n LoopNest) Validate() error {
	prev := 0
	for i, b := range n.StorageTilingBoundaries {
		if b < prev {
			return errors.New(errors.ErrCodeInvalidConfig, "storage_tiling_boundaries[%d]=%d is less than boundary[%d]=%d; must be non-decreasing", i, b, i-1, prev)
		}
		if b < 0 || b > len(n.Loops) {
			return errors.New(errors.ErrCodeInvalidConfig, "storage_tiling_boundaries[%d]=%d out of range [0,%d]", i, b, len(n.Loops))
		}
		prev = b
	}
	if numLevels := len(n.StorageTilingBoundaries); numLevels > 0 && prev != len(n.Loops) {
		return errors.New(errors.ErrCodeInvalidConfig, "storage_tiling_boundaries[%d]=%d must equal len(loops)=%d; the outermost level must accumulate every remaining loop", numLevels-1, prev, len(n.Loops))
	}
	return nil
}

// NumLevels returns the number of storage levels implied by the boundaries.
func (n LoopNest) NumLevels() int {
	return len(n.StorageTilingBoundaries)
}
