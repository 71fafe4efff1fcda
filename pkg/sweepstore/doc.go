// Package sweepstore coordinates an outer search loop that replicates
// pkg/core/legalize.Legal instances across worker goroutines or
// processes (spec §5): it records which run a (workload, mapping, arch)
// digest belongs to, hands out the next unclaimed (splitting_id,
// packing_id) pair atomically, and lets a restarted worker resume
// without re-trying pairs another worker already claimed.
//
// Backends: MemoryStore (single-process tests and short-lived sweeps),
// FileStore (single-machine CLI runs), RedisStore (fast shared
// coordination across machines), MongoStore (durable coordination that
// survives the coordinating Redis instance restarting).
package sweepstore
