// Package mapping holds the tiled, permuted, spatial/temporal loop nest a
// workload is mapped onto, and the storage-tiling boundaries that carve it
// into per-level tiles (spec §3, §6).
//
// A Mapping never varies during legalization — it is a read-only input
// captured by reference, the same as [github.com/maeri-project/timeloop/pkg/core/workload.Context]
// and [github.com/maeri-project/timeloop/pkg/core/archspec.List] — the
// concordant builder (pkg/core/concordant) is the sole reader.
package mapping
