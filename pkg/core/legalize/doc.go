// Package legalize exposes Legal, the facade that ties the concordant
// builder, design-space builder, and materializer together into the
// single entry point an outer search loop drives (spec §2, §5).
//
// # Lifecycle
//
// Init builds the concordant layout once and the splitting/packing
// catalogs once; both are immutable afterward. Construct rewrites a
// fresh copy of the concordant layout on every call and never
// accumulates state across calls.
//
// # Concurrency
//
// A Legal instance owns its working layout and catalogs exclusively — it
// is not safe for concurrent mutation. An outer search loop that wants
// parallelism replicates Legal instances across worker goroutines rather
// than sharing one (spec §5). The workload context, mapping, and arch
// specs passed to New are captured by reference and must outlive the
// instance.
package legalize
