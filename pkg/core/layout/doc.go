// Package layout holds the layout datum: per storage level, per dataspace,
// a pair of rank→factor maps (intraline, interline) plus the static port
// counts of that level (spec §3).
//
// # Overview
//
// A [Layout] is a sequence of [LevelEntry] values, one per storage level,
// innermost first (the same indexing as
// [github.com/maeri-project/timeloop/pkg/core/archspec.List] and
// [github.com/maeri-project/timeloop/pkg/core/mapping.LoopNest]). Each
// LevelEntry holds one [Nest] per dataspace name.
//
// # Lifecycle
//
// A Layout is built once by the concordant builder
// (pkg/core/concordant.Build) from a mapping, then rewritten in place by
// the materializer on every construct call: each call first [Layout.Clone]s
// the concordant baseline, then applies the decoded splitting/packing
// options to the clone. The concordant baseline itself is never mutated.
//
// # Invariants
//
// For every rank r of a kept dataspace, Intraline[r] * Interline[r] must
// equal the tile extent the concordant builder computed for that slot
// (I2). Bypassed dataspaces hold Intraline[r]=1 and Interline[r] equal to
// the rank's full (untiled) extent (I3). All factors are positive
// integers (I4).
package layout
