// Package sequential implements the fallback factorizer spec §4.4
// describes as a simpler, non-enumerative alternative to the full
// splitting catalog: for any overflowing (level, ds), it greedily moves
// whole ranks from intraline to interline, in permutation order, until
// the intraline product fits the line capacity.
//
// Unlike pkg/core/designspace, it never consults a catalog and is not a
// Construct option — callers use it when they want a single valid
// layout without choosing among enumerated IDs.
package sequential
