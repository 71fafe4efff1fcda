// Package archspec describes the per-storage-level architectural limits the
// design-space builder and materializer check layouts against: total
// capacity and line capacity (spec §3, §6).
package archspec

// Unbounded marks a Level field as having no configured limit. Total
// capacity saturates to Unbounded when unspecified (spec §3: "saturate an
// unspecified value to infinite").
const Unbounded = 0

// Level holds one storage level's architectural spec. Capacity and
// bandwidth fields use the zero value to mean "unspecified"; use
// [Level.LineCapacity] and [Level.TotalCapacity] to read resolved values
// with the spec's fallback rules applied.
type Level struct {
	Name string

	// TotalCapacitySpec is the configured total capacity in elements, or
	// Unbounded if not configured.
	TotalCapacitySpec int

	// LineCapacitySpec is the configured elements-per-line capacity, or
	// Unbounded if not configured (falls back to bandwidth, spec §3).
	LineCapacitySpec int

	ReadBandwidth  int
	WriteBandwidth int

	NumReadPorts  int
	NumWritePorts int
}

// TotalCapacity returns the level's total capacity, saturating to
// [Unbounded] (treated as infinite by callers) when unconfigured.
func (l Level) TotalCapacity() int {
	return l.TotalCapacitySpec
}

// IsUnbounded reports whether the level's total capacity is unconfigured,
// i.e. should be treated as infinite.
func (l Level) IsUnbounded() bool {
	return l.TotalCapacitySpec == Unbounded
}

// LineCapacity returns the level's elements-per-line capacity. If
// unconfigured, it falls back to max(ReadBandwidth, WriteBandwidth) per
// spec §3: "line_capacity ... fall back to max(read_bw, write_bw) if
// unspecified".
func (l Level) LineCapacity() int {
	if l.LineCapacitySpec > 0 {
		return l.LineCapacitySpec
	}
	if l.ReadBandwidth > l.WriteBandwidth {
		return l.ReadBandwidth
	}
	return l.WriteBandwidth
}

// List is the ordered set of storage levels, innermost first (index 0 is
// closest to the compute, the last index is the outermost level, e.g.
// DRAM) — the same indexing StorageTilingBoundaries uses (spec §6,
// pkg/core/mapping.LoopNest).
type List []Level

// NumLevels returns the number of storage levels.
func (l List) NumLevels() int {
	return len(l)
}
