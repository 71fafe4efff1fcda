// Package concordant derives the canonical layout directly from a mapping
// (spec §4.1): the layout every construct call resets to before applying a
// chosen splitting/packing option vector.
//
// # Algorithm
//
// [Build] walks the loop nest from innermost to outermost, accumulating
// per-(level, dimension) intraline (spatial) and interline (temporal) loop
// extents, then composes per-rank intraline and total extents from those
// cumulative dimension values. The interline factor at each (level, ds,
// rank) is chosen so that intraline*interline reproduces the mapping's
// tile extent (I2); bypassed dataspaces get the (1, full-extent) override
// (I3).
//
// The cumulative-intraline outward-propagation rule gates per level, not
// per dimension: a level's contribution is folded into the running
// cumulative product only if that level has any spatial loop at all. This
// couples otherwise-unrelated dimensions' cumulative extents at a shared
// level — spec §4.1 and §9 name this as a known quirk of the source
// algorithm, preserved here rather than redesigned (see DESIGN.md).
package concordant
