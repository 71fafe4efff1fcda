package materialize

import (
	"context"
	"time"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/designspace"
	"github.com/maeri-project/timeloop/pkg/core/layout"
	"github.com/maeri-project/timeloop/pkg/errors"
	"github.com/maeri-project/timeloop/pkg/observability"
)

// Options configures a single Construct call.
type Options struct {
	// StrictIDBounds, when true, rejects splitting_id == splitting_candidates
	// (and the packing equivalent) in addition to values greater than it.
	// The default (false) matches spec §4.3's literal ">" boundary check,
	// which spec §9 notes likely admits one extra invalid ID at the
	// boundary (see DESIGN.md).
	StrictIDBounds bool
}

// Construct mixed-radix decodes (splittingID, packingID) against cat,
// applies the selected options to a fresh copy of concordant, and
// validates the result (spec §4.3).
func Construct(ctx context.Context, concordant layout.Layout, cat *designspace.Catalogs, arch archspec.List, splittingID, packingID uint64, opts Options) (layout.Layout, error) {
	start := time.Now()
	result, err := construct(concordant, cat, arch, splittingID, packingID, opts)
	observability.Legalize().OnConstruct(ctx, splittingID, packingID, time.Since(start), err)
	return result, err
}

func construct(concordant layout.Layout, cat *designspace.Catalogs, arch archspec.List, splittingID, packingID uint64, opts Options) (layout.Layout, error) {
	if err := checkBounds(splittingID, cat.SplittingCandidates, "SplittingSpace", opts.StrictIDBounds); err != nil {
		return layout.Layout{}, err
	}
	if err := checkBounds(packingID, cat.PackingCandidates, "PackingSpace", opts.StrictIDBounds); err != nil {
		return layout.Layout{}, err
	}

	numLevels := len(cat.Slots)
	numDS := len(cat.DataspaceOrder)

	splittingChoice := decode(cat.SplittingRadix, splittingID, numLevels, numDS)
	packingChoice := decode(cat.PackingRadix, packingID, numLevels, numDS)

	out := concordant.Clone()

	if err := applySplitting(&out, cat, splittingChoice); err != nil {
		return layout.Layout{}, err
	}
	if err := applyPacking(&out, cat, packingChoice); err != nil {
		return layout.Layout{}, err
	}

	if err := validate(out, cat, arch); err != nil {
		return layout.Layout{}, err
	}
	return out, nil
}

func checkBounds(id, candidates uint64, label string, strict bool) error {
	exceeds := id > candidates
	if strict {
		exceeds = id >= candidates
	}
	if exceeds {
		return errors.New(errors.ErrCodeIDOutOfRange, "%s ID %d exceeds %s (%d candidates)", label, id, label, candidates)
	}
	return nil
}

// decode mixed-radix decodes id against radix, visiting slots outermost
// level to innermost and, within a level, last dataspace to first (spec
// §4.3 step 3).
func decode(radix [][]int, id uint64, numLevels, numDS int) [][]int {
	choice := make([][]int, numLevels)
	for l := range choice {
		choice[l] = make([]int, numDS)
	}
	for level := numLevels - 1; level >= 0; level-- {
		for dsIdx := numDS - 1; dsIdx >= 0; dsIdx-- {
			divisor := uint64(radix[level][dsIdx])
			choice[level][dsIdx] = int(id % divisor)
			id /= divisor
		}
	}
	return choice
}

// applySplitting applies the decoded splitting options in forward order
// (outermost-to-innermost on neither axis matters for the outcome, but
// spec §5 fixes level 0→N-1, first-to-last dataspace for deterministic
// error ordering).
func applySplitting(out *layout.Layout, cat *designspace.Catalogs, choice [][]int) error {
	for level := 0; level < len(cat.Slots); level++ {
		for dsIdx, dsName := range cat.DataspaceOrder {
			catalog := cat.Slot(level, dsIdx).Splitting
			idx := choice[level][dsIdx]
			if idx >= len(catalog) {
				continue
			}
			option := catalog[idx]
			nest, ok := out.Nest(level, dsName)
			if !ok {
				continue
			}
			for _, rank := range option.Ranks {
				s := option.Factors[rank]
				cur, ok := nest.Intraline[rank]
				if !ok || s <= 0 || cur%s != 0 {
					return errors.New(errors.ErrCodeOptionInapplicable,
						"splitting option at level %d, dataspace %q: factor %d does not divide rank %q's intraline value %d", level, dsName, s, rank, cur)
				}
				nest.Intraline[rank] = cur / s
				nest.Interline[rank] *= s
			}
			out.SetNest(level, dsName, nest)
		}
	}
	return nil
}

// applyPacking is the interline→intraline symmetric counterpart of
// applySplitting, applied after every splitting option (spec §5).
func applyPacking(out *layout.Layout, cat *designspace.Catalogs, choice [][]int) error {
	for level := 0; level < len(cat.Slots); level++ {
		for dsIdx, dsName := range cat.DataspaceOrder {
			catalog := cat.Slot(level, dsIdx).Packing
			idx := choice[level][dsIdx]
			if idx >= len(catalog) {
				continue
			}
			option := catalog[idx]
			nest, ok := out.Nest(level, dsName)
			if !ok {
				continue
			}
			for _, rank := range option.Ranks {
				p := option.Factors[rank]
				cur, ok := nest.Interline[rank]
				if !ok || p <= 0 || cur%p != 0 {
					return errors.New(errors.ErrCodeOptionInapplicable,
						"packing option at level %d, dataspace %q: factor %d does not divide rank %q's interline value %d", level, dsName, p, rank, cur)
				}
				nest.Interline[rank] = cur / p
				nest.Intraline[rank] *= p
			}
			out.SetNest(level, dsName, nest)
		}
	}
	return nil
}

// validate enforces I1 on the final layout, level by level (spec §4.3
// step 6): a violation here is an internal-consistency bug, not a
// recoverable condition.
func validate(l layout.Layout, cat *designspace.Catalogs, arch archspec.List) error {
	for level := 0; level < len(l.Levels); level++ {
		lineCapacity := arch[level].LineCapacity()
		for _, dsName := range cat.DataspaceOrder {
			nest, ok := l.Nest(level, dsName)
			if !ok {
				continue
			}
			if err := layout.ValidateCapacity(level, dsName, nest, lineCapacity); err != nil {
				return err
			}
		}
	}
	return nil
}
