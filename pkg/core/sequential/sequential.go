package sequential

import (
	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/layout"
	"github.com/maeri-project/timeloop/pkg/core/workload"
)

// Resolve returns a copy of l where every overflowing (level, ds) slot
// has been greedily rewritten: ranks are walked in the nest's
// permutation order, each rank's entire intraline factor moved to
// interline, until the intraline product fits the level's line capacity
// (spec §4.4).
func Resolve(l layout.Layout, ctx *workload.Context, arch archspec.List) layout.Layout {
	out := l.Clone()
	for level := 0; level < len(out.Levels); level++ {
		lineCapacity := arch[level].LineCapacity()
		for _, dsName := range ctx.DataspaceOrder {
			ds, ok := ctx.Dataspace(dsName)
			if !ok || !ds.KeepAt(level) {
				continue
			}
			nest, ok := out.Nest(level, dsName)
			if !ok {
				continue
			}
			resolveNest(nest, lineCapacity)
			out.SetNest(level, dsName, nest)
		}
	}
	return out
}

func resolveNest(nest layout.Nest, lineCapacity int) {
	for _, rank := range nest.Permutation {
		if nest.IntralineProduct() <= lineCapacity {
			return
		}
		factor := nest.Intraline[rank]
		if factor <= 1 {
			continue
		}
		nest.Interline[rank] *= factor
		nest.Intraline[rank] = 1
	}
}
