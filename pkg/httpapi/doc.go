// Package httpapi exposes the layout legalization core over HTTP for
// remote or parallel search drivers (spec §5's "outer search loop that
// may be parallelized by replicating Legal instances across worker
// threads" — one Server per process, routed with go-chi/chi).
//
// Every handler is read-only against the underlying legalize.Legal after
// Init: catalogs and the concordant layout are built once at startup and
// served from memory; Construct is safe to call concurrently across
// requests because each call resets to the immutable concordant baseline
// and returns a fresh layout value (spec §5, §4.3).
package httpapi
