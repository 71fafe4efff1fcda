package concordant

import (
	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/layout"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/core/workload"
	"github.com/maeri-project/timeloop/pkg/errors"
)

// Build derives the concordant layout from nest, ctx, and arch (spec
// §4.1). It is idempotent: calling it twice on the same inputs produces
// identical layouts (P6), since it only reads its arguments.
func Build(nest mapping.LoopNest, ctx *workload.Context, arch archspec.List) (layout.Layout, error) {
	if err := nest.Validate(); err != nil {
		return layout.Layout{}, err
	}
	numLevels := arch.NumLevels()
	if nest.NumLevels() != numLevels {
		return layout.Layout{}, errors.New(errors.ErrCodeInvalidConfig,
			"loop nest declares %d storage levels, arch spec declares %d", nest.NumLevels(), numLevels)
	}
	if numLevels == 0 {
		return layout.Layout{}, errors.New(errors.ErrCodeInvalidConfig, "arch spec declares zero storage levels")
	}

	intralineLoopEnd, interlineLoopEnd := accumulateLoopEnds(nest, numLevels)
	cumIntraline, cumOverall := accumulate(intralineLoopEnd, interlineLoopEnd, numLevels)

	out := layout.Layout{Levels: make([]layout.LevelEntry, numLevels)}
	for level := 0; level < numLevels; level++ {
		out.Levels[level] = layout.LevelEntry{
			Nests:         make(map[string]layout.Nest, len(ctx.DataspaceOrder)),
			NumReadPorts:  arch[level].NumReadPorts,
			NumWritePorts: arch[level].NumWritePorts,
		}
	}

	outermost := numLevels - 1
	for level := 0; level < numLevels; level++ {
		for _, dsName := range ctx.DataspaceOrder {
			ds, ok := ctx.Dataspace(dsName)
			if !ok {
				continue
			}
			nst := layout.NewNest(ds.Ranks)
			for _, rankName := range ds.Ranks {
				rank, ok := ctx.Rank(rankName)
				if !ok {
					return layout.Layout{}, errors.New(errors.ErrCodeInvalidConfig, "dataspace %q references undefined rank %q", dsName, rankName)
				}

				if !ds.KeepAt(level) {
					fullExtent, err := ctx.FullExtent(rankName)
					if err != nil {
						return layout.Layout{}, err
					}
					nst.Intraline[rankName] = 1
					nst.Interline[rankName] = fullExtent
					continue
				}

				intralineValues := dimValuesAt(cumIntraline[level], rank.Dims)
				overallValues := dimValuesAt(cumOverall[level], rank.Dims)

				intralineExtent := workload.ComposeExtent(intralineValues, rank.Coefficients)
				totalExtent := workload.ComposeExtent(overallValues, rank.Coefficients)
				if level == outermost {
					totalExtent -= 2 * rank.ZeroPadding
				}
				if intralineExtent <= 0 {
					return layout.Layout{}, errors.New(errors.ErrCodeDivisionByZero,
						"level %d, dataspace %q, rank %q: intraline extent is non-positive (%d)", level, dsName, rankName, intralineExtent)
				}

				interline := ceilDiv(totalExtent, intralineExtent)
				nst.Intraline[rankName] = intralineExtent
				nst.Interline[rankName] = interline
			}
			out.Levels[level].Nests[dsName] = nst
		}
	}
	return out, nil
}

// accumulateLoopEnds walks the loop nest from innermost to outermost,
// maintaining a storage-level cursor that advances as the walk crosses
// each tiling boundary (spec §4.1 step 1; see DESIGN.md for why this
// implementation's cursor moves 0→NumLevels-1 rather than the opposite
// direction spec.md's prose literally describes).
func accumulateLoopEnds(nest mapping.LoopNest, numLevels int) (intraline, interline []map[string]int) {
	intraline = make([]map[string]int, numLevels)
	interline = make([]map[string]int, numLevels)
	for l := 0; l < numLevels; l++ {
		intraline[l] = make(map[string]int)
		interline[l] = make(map[string]int)
	}

	level := 0
	for i, loop := range nest.Loops {
		for level < numLevels-1 && i >= nest.StorageTilingBoundaries[level] {
			level++
		}
		if loop.Spacetime.IsSpatial() {
			mulInto(intraline[level], loop.Dim, loop.End)
		} else {
			mulInto(interline[level], loop.Dim, loop.End)
		}
	}
	return intraline, interline
}

func mulInto(m map[string]int, key string, factor int) {
	if v, ok := m[key]; ok {
		m[key] = v * factor
	} else {
		m[key] = factor
	}
}

// accumulate computes cumulative_intraline and cumulative_overall by
// scanning from the innermost level outward, folding in a level's own
// contribution only when that level has any spatial loop (spec §4.1 step
// 3, the "cumulative-intraline rule").
func accumulate(intralineLoopEnd, interlineLoopEnd []map[string]int, numLevels int) (cumIntraline, cumOverall []map[string]int) {
	dims := allDims(intralineLoopEnd, interlineLoopEnd)

	cumIntraline = make([]map[string]int, numLevels)
	cumOverall = make([]map[string]int, numLevels)
	for l := 0; l < numLevels; l++ {
		cumIntraline[l] = make(map[string]int, len(dims))
		cumOverall[l] = make(map[string]int, len(dims))
	}

	for l := 0; l < numLevels; l++ {
		active := spatialActive(intralineLoopEnd[l])
		for dim := range dims {
			intralineHere := getOr1(intralineLoopEnd[l], dim)
			overallHere := intralineHere * getOr1(interlineLoopEnd[l], dim)
			if l == 0 {
				cumIntraline[l][dim] = intralineHere
				cumOverall[l][dim] = overallHere
				continue
			}
			if active {
				cumIntraline[l][dim] = cumIntraline[l-1][dim] * intralineHere
				cumOverall[l][dim] = cumOverall[l-1][dim] * overallHere
			} else {
				cumIntraline[l][dim] = cumIntraline[l-1][dim]
				cumOverall[l][dim] = cumOverall[l-1][dim]
			}
		}
	}
	return cumIntraline, cumOverall
}

func allDims(maps ...[]map[string]int) map[string]struct{} {
	dims := make(map[string]struct{})
	for _, perLevel := range maps {
		for _, m := range perLevel {
			for dim := range m {
				dims[dim] = struct{}{}
			}
		}
	}
	return dims
}

func spatialActive(intralineAtLevel map[string]int) bool {
	for _, v := range intralineAtLevel {
		if v > 1 {
			return true
		}
	}
	return false
}

func getOr1(m map[string]int, key string) int {
	if v, ok := m[key]; ok {
		return v
	}
	return 1
}

func dimValuesAt(cumAtLevel map[string]int, dims []string) []int {
	values := make([]int, len(dims))
	for i, d := range dims {
		values[i] = getOr1(cumAtLevel, d)
	}
	return values
}

// ceilDiv computes the interline factor from total and intraline extents
// (spec §4.1 step 5). The padding subtraction spec §4.1 step 5's formula
// restates is already folded into totalExtent by the caller (step 4), so
// it is not applied a second time here.
func ceilDiv(totalExtent, intralineExtent int) int {
	return (totalExtent + intralineExtent - 1) / intralineExtent
}
