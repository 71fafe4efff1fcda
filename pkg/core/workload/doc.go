// Package workload carries the workload-wide tables a mapping and a layout
// are both expressed against: ranks (named, possibly compound, indices) and
// dataspaces (tensors addressed by an ordered list of ranks).
//
// # Architecture
//
// Rather than threading these tables through every layer by hand, this
// module keeps them in one immutable
// [Context], built once by the external configuration layer (pkg/config)
// and passed by reference into every core component from
// [github.com/maeri-project/timeloop/pkg/core/legalize.Legal] down. No core
// package mutates a Context after construction.
package workload
