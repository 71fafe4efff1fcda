// Package designspace builds the splitting and packing option catalogs a
// concordant layout needs before any (splitting_id, packing_id) can be
// materialized (spec §4.2).
//
// # Classification
//
// For each (level, dataspace) slot where the dataspace is kept, the
// builder compares the intraline product I against the level's line
// capacity C: I > C enumerates splitting options, I < C enumerates
// packing options, I == C (or bypassed) leaves both catalogs empty.
//
// # Splitting
//
// For every non-empty subset of the dataspace's ranks up to k_max in
// size, the first rank-subset-wide factor tuple that brings the
// intraline product at or under capacity is recorded as one option — not
// every valid tuple. Downstream search compensates for this by varying
// the subset, not by expecting every combination enumerated (spec §9's
// first Open Question).
//
// # Packing
//
// Packing enumerates every tuple over the single fixed set of ranks that
// have more than one candidate factor, applies a running-maximum
// pruning threshold (keep only options within ρ=0.9 of the best total
// packing seen so far), and iterates each rank's factors in descending
// order so the densest options are found first.
//
// Catalogs are built once, after the concordant build, and are immutable
// thereafter (P4: rebuilding from the same inputs is deterministic).
package designspace
