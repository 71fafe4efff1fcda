// Package numeric provides the small combinatorial building blocks the
// design-space builder needs: divisor enumeration and bounded-size rank
// subsets.
//
// # Overview
//
// Enumerating splitting and packing options (pkg/core/designspace) requires
// two primitives that don't belong to any single rank or dataspace:
//
//   - [Divisors]: every divisor > 1 of an integer, in ascending order —
//     candidate splitting/packing factors for one rank.
//   - [Subsets]: every non-empty subset of a slice up to a bounded size,
//     in a fixed traversal order — candidate rank combinations for one
//     (level, dataspace) slot.
//
// Both are small and exhaustive by design: catalog sizes are bounded by the
// storage hierarchy and by k_max (pkg/core/designspace.DefaultKMax), not
// by workload size, so neither function needs to scale past a few dozen
// items.
//
// # Traversal order matters
//
// [Subsets] and [Divisors] return results in a specific, documented order
// because the design-space builder's "first-hit" enumeration rule (spec §4.2)
// depends on it: the first valid factor tuple found while walking ranks in
// order and factors in ascending order is the one recorded for a given
// rank subset. Changing the order changes which options appear in a
// catalog, even though the catalog's semantics (what counts as "valid")
// stay the same.
package numeric
