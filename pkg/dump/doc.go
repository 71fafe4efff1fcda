// Package dump writes a materialized layout back out in the "Dump
// format" spec §6 names: the same schema as pkg/config's [[layout]]
// configuration entries, one block per (target, type), with disagreeing
// dataspaces merged by taking the max factor per rank.
//
// Write is the external-layer counterpart to pkg/config.Parse — round-
// tripping a dump through Parse reproduces an equivalent initial layout,
// modulo the per-dataspace detail the merge step discards.
package dump
