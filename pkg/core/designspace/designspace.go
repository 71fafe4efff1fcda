package designspace

import (
	"time"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/layout"
	"github.com/maeri-project/timeloop/pkg/core/numeric"
	"github.com/maeri-project/timeloop/pkg/core/workload"
)

// SlotHook, if non-nil, is invoked by Build once per (level, ds) slot as
// its catalogs finish, with the per-slot build duration — pkg/core/legalize
// wires this to observability.LegalizeHooks.OnCatalogsBuilt.
type SlotHook func(level int, ds string, splitCount, packCount int, duration time.Duration)

// DefaultKMax is the default bound on splitting rank-subset size, an
// engineering heuristic to bound combinatorial blow-up (spec §4.2, §9).
const DefaultKMax = 3

// PackingPruneRatio (ρ) bounds which packing options survive the
// running-maximum pruning pass (spec §4.2).
const PackingPruneRatio = 0.9

// SplittingOption is one entry in a (level, ds) splitting catalog: a
// rank subset and, per rank in it, the factor moved from intraline to
// interline.
type SplittingOption struct {
	Ranks   []string
	Factors map[string]int
}

// PackingOption is one entry in a (level, ds) packing catalog: a rank
// subset and, per rank, the factor moved from interline to intraline.
type PackingOption struct {
	Ranks   []string
	Factors map[string]int
}

// Slot holds the splitting and packing catalogs for one (level, ds) pair.
// Spec §4.2's classification guarantees at most one of the two is
// non-empty.
type Slot struct {
	Splitting []SplittingOption
	Packing   []PackingOption
}

// Catalogs is the full set of per-(level, ds) slots, plus the cached
// global sizes and radix vectors the materializer needs to mixed-radix
// decode an ID (spec §4.2, §4.3).
type Catalogs struct {
	DataspaceOrder []string

	// Slots is indexed [level][dataspace index into DataspaceOrder],
	// innermost level first, same as layout.Layout.
	Slots [][]Slot

	// SplittingRadix and PackingRadix hold, per slot, the catalog size
	// if non-empty or 1 otherwise (spec §4.2's radix_s/radix_p).
	SplittingRadix [][]int
	PackingRadix   [][]int

	SplittingCandidates uint64
	PackingCandidates   uint64
}

// Slot returns the catalog slot at (level, dsIndex).
func (c *Catalogs) Slot(level, dsIndex int) Slot {
	return c.Slots[level][dsIndex]
}

// Build populates the splitting and packing catalogs for every (level,
// ds) slot in l (spec §4.2). kMax bounds splitting rank-subset size; a
// non-positive value falls back to [DefaultKMax].
func Build(l layout.Layout, ctx *workload.Context, arch archspec.List, kMax int, onSlot SlotHook) *Catalogs {
	if kMax <= 0 {
		kMax = DefaultKMax
	}
	numLevels := len(l.Levels)
	numDS := len(ctx.DataspaceOrder)

	cat := &Catalogs{
		DataspaceOrder: ctx.DataspaceOrder,
		Slots:          make([][]Slot, numLevels),
		SplittingRadix: make([][]int, numLevels),
		PackingRadix:   make([][]int, numLevels),
	}

	for level := 0; level < numLevels; level++ {
		cat.Slots[level] = make([]Slot, numDS)
		cat.SplittingRadix[level] = make([]int, numDS)
		cat.PackingRadix[level] = make([]int, numDS)

		lineCapacity := arch[level].LineCapacity()
		for dsIdx, dsName := range ctx.DataspaceOrder {
			ds, ok := ctx.Dataspace(dsName)
			if !ok {
				continue
			}

			slotStart := time.Now()
			var slot Slot
			if ds.KeepAt(level) {
				if nest, ok := l.Nest(level, dsName); ok {
					intralineProduct := nest.IntralineProduct()
					switch {
					case intralineProduct > lineCapacity:
						slot.Splitting = enumerateSplitting(ds.Ranks, nest, intralineProduct, lineCapacity, kMax)
					case intralineProduct < lineCapacity:
						slot.Packing = enumeratePacking(ds.Ranks, nest, intralineProduct, lineCapacity)
					}
				}
			}

			cat.Slots[level][dsIdx] = slot
			cat.SplittingRadix[level][dsIdx] = radixOf(len(slot.Splitting))
			cat.PackingRadix[level][dsIdx] = radixOf(len(slot.Packing))
			if onSlot != nil {
				onSlot(level, dsName, len(slot.Splitting), len(slot.Packing), time.Since(slotStart))
			}
		}
	}

	cat.SplittingCandidates = productRadix(cat.SplittingRadix)
	cat.PackingCandidates = productRadix(cat.PackingRadix)
	return cat
}

func radixOf(n int) int {
	if n > 0 {
		return n
	}
	return 1
}

func productRadix(radix [][]int) uint64 {
	var product uint64 = 1
	for _, row := range radix {
		for _, r := range row {
			product *= uint64(r)
		}
	}
	return product
}

// enumerateSplitting walks every rank subset of size 1..kMax (in the
// order spec §4.2 names: ranks in ds.ranks order, factors ascending) and
// records the first factor tuple per subset that brings intralineProduct
// at or under lineCapacity.
func enumerateSplitting(ranks []string, nest layout.Nest, intralineProduct, lineCapacity, kMax int) []SplittingOption {
	candidates := make([][]int, len(ranks))
	for i, r := range ranks {
		candidates[i] = numeric.Divisors(nest.Intraline[r])
	}

	var options []SplittingOption
	for _, subset := range numeric.Subsets(len(ranks), kMax) {
		if opt, ok := firstSplittingTuple(ranks, candidates, subset, intralineProduct, lineCapacity); ok {
			options = append(options, opt)
		}
	}
	return options
}

func firstSplittingTuple(ranks []string, candidates [][]int, subset []int, intralineProduct, lineCapacity int) (SplittingOption, bool) {
	chosen := make([]int, len(subset))

	var recurse func(pos int) (SplittingOption, bool)
	recurse = func(pos int) (SplittingOption, bool) {
		if pos == len(subset) {
			reduction := 1
			for _, s := range chosen {
				reduction *= s
			}
			if intralineProduct/reduction > lineCapacity {
				return SplittingOption{}, false
			}
			factors := make(map[string]int, len(subset))
			optRanks := make([]string, len(subset))
			for i, rankIdx := range subset {
				optRanks[i] = ranks[rankIdx]
				factors[ranks[rankIdx]] = chosen[i]
			}
			return SplittingOption{Ranks: optRanks, Factors: factors}, true
		}
		rankIdx := subset[pos]
		for _, factor := range candidates[rankIdx] {
			chosen[pos] = factor
			if opt, ok := recurse(pos + 1); ok {
				return opt, true
			}
		}
		return SplittingOption{}, false
	}

	for _, rankIdx := range subset {
		if len(candidates[rankIdx]) == 0 {
			return SplittingOption{}, false
		}
	}
	return recurse(0)
}

// enumeratePacking walks every tuple over the fixed set of ranks that
// have more than one candidate factor (spec §4.2's "single combination
// equal to all ranks that have a candidate set of size ≥2"), in
// descending per-rank factor order, applying the running-maximum
// pruning pass as it goes.
func enumeratePacking(ranks []string, nest layout.Nest, intralineProduct, lineCapacity int) []PackingOption {
	var packRanks []string
	candidates := make(map[string][]int)
	for _, r := range ranks {
		divisors := numeric.DivisorsWithOne(nest.Interline[r])
		if len(divisors) >= 2 {
			packRanks = append(packRanks, r)
			candidates[r] = reversed(divisors)
		}
	}
	if len(packRanks) < 2 {
		// A single qualifying rank has nowhere to combine with; packing
		// only exists as a multi-rank combination.
		return nil
	}

	var options []PackingOption
	maxSeen := 0
	chosen := make(map[string]int, len(packRanks))

	var recurse func(pos int)
	recurse = func(pos int) {
		if pos == len(packRanks) {
			total := 1
			for _, v := range chosen {
				total *= v
			}
			if intralineProduct*total > lineCapacity {
				return
			}
			threshold := float64(maxSeen) * PackingPruneRatio
			if maxSeen > 0 && float64(total) <= threshold {
				return
			}
			factors := make(map[string]int, len(packRanks))
			for r, v := range chosen {
				factors[r] = v
			}
			options = append(options, PackingOption{Ranks: append([]string(nil), packRanks...), Factors: factors})
			if total > maxSeen {
				maxSeen = total
			}
			return
		}
		r := packRanks[pos]
		for _, factor := range candidates[r] {
			chosen[r] = factor
			recurse(pos + 1)
		}
		delete(chosen, r)
	}
	recurse(0)
	return options
}

func reversed(xs []int) []int {
	out := make([]int, len(xs))
	for i, v := range xs {
		out[len(xs)-1-i] = v
	}
	return out
}
