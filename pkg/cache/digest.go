package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/core/workload"
)

// Digest returns a stable hash of a (workload, mapping, arch) triple —
// the cache-key namespace a catalog or construct result lives under.
// Two calls over equal-by-value inputs always return the same digest,
// regardless of map iteration order.
func Digest(ctx *workload.Context, nest mapping.LoopNest, arch archspec.List) string {
	var buf strings.Builder

	for _, name := range ctx.RankOrder {
		r, _ := ctx.Rank(name)
		fmt.Fprintf(&buf, "rank:%s:%v:%v:%d\n", r.Name, r.Dims, r.Coefficients, r.ZeroPadding)
	}
	for _, name := range ctx.DataspaceOrder {
		d, _ := ctx.Dataspace(name)
		fmt.Fprintf(&buf, "ds:%s:%v:%v\n", d.Name, d.Ranks, d.Keep)
	}

	dims := make([]string, 0, len(ctx.DimensionBounds))
	for dim := range ctx.DimensionBounds {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		fmt.Fprintf(&buf, "dim:%s:%d\n", dim, ctx.DimensionBounds[dim])
	}

	for _, loop := range nest.Loops {
		fmt.Fprintf(&buf, "loop:%s:%d:%d\n", loop.Dim, loop.End, loop.Spacetime)
	}
	fmt.Fprintf(&buf, "boundaries:%v\n", nest.StorageTilingBoundaries)

	for _, lvl := range arch {
		fmt.Fprintf(&buf, "level:%s:%d:%d:%d:%d:%d:%d\n",
			lvl.Name, lvl.TotalCapacitySpec, lvl.LineCapacitySpec,
			lvl.ReadBandwidth, lvl.WriteBandwidth, lvl.NumReadPorts, lvl.NumWritePorts)
	}

	return Hash([]byte(buf.String()))
}
