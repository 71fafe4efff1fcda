package legalize

import (
	"context"
	"time"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/concordant"
	"github.com/maeri-project/timeloop/pkg/core/designspace"
	"github.com/maeri-project/timeloop/pkg/core/layout"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/core/materialize"
	"github.com/maeri-project/timeloop/pkg/core/sequential"
	"github.com/maeri-project/timeloop/pkg/core/workload"
	"github.com/maeri-project/timeloop/pkg/errors"
	"github.com/maeri-project/timeloop/pkg/observability"
)

// Legal is the per-run core facade: one concordant layout and one pair of
// catalogs, built once by Init and read by every later Construct call.
type Legal struct {
	ctx  *workload.Context
	arch archspec.List
	nest mapping.LoopNest

	kMax           int
	strictIDBounds bool

	concordant layout.Layout
	catalogs   *designspace.Catalogs
	ready      bool
}

// Option configures a Legal instance at construction.
type Option func(*Legal)

// WithKMax overrides the splitting rank-subset size bound (spec §4.2,
// §9's "multi-rank enumeration bound"). Non-positive values fall back to
// [designspace.DefaultKMax].
func WithKMax(kMax int) Option {
	return func(lg *Legal) { lg.kMax = kMax }
}

// WithStrictIDBounds rejects an ID exactly equal to its catalog's
// candidate count, tightening spec §4.3 step 1's literal ">" bound to
// ">=" (spec §9's Open Question; see DESIGN.md).
func WithStrictIDBounds(strict bool) Option {
	return func(lg *Legal) { lg.strictIDBounds = strict }
}

// New returns a Legal instance over the given workload, arch specs, and
// mapping. None of the three are copied; the caller must keep them alive
// and must not mutate them for the lifetime of the returned instance.
func New(ctx *workload.Context, arch archspec.List, nest mapping.LoopNest, opts ...Option) *Legal {
	lg := &Legal{ctx: ctx, arch: arch, nest: nest}
	for _, opt := range opts {
		opt(lg)
	}
	return lg
}

// Init builds the concordant layout and the splitting/packing catalogs.
// It must be called once before Concordant, CatalogSizes, Catalogs,
// GlobalSizes, Sequential, or Construct.
func (lg *Legal) Init(ctx context.Context) error {
	start := time.Now()
	concordantLayout, err := concordant.Build(lg.nest, lg.ctx, lg.arch)
	if err != nil {
		return err
	}
	lg.concordant = concordantLayout
	observability.Legalize().OnConcordantBuilt(ctx, len(lg.arch), len(lg.ctx.DataspaceOrder), time.Since(start))

	lg.catalogs = designspace.Build(concordantLayout, lg.ctx, lg.arch, lg.kMax,
		func(level int, ds string, splitCount, packCount int, duration time.Duration) {
			observability.Legalize().OnCatalogsBuilt(ctx, level, ds, splitCount, packCount, duration)
		})
	lg.ready = true
	return nil
}

// Concordant returns the layout Init derived directly from the mapping,
// before any splitting or packing option is applied.
func (lg *Legal) Concordant() (layout.Layout, error) {
	if !lg.ready {
		return layout.Layout{}, errors.New(errors.ErrCodeInternal, "legalize: Init must be called before Concordant")
	}
	return lg.concordant, nil
}

// CatalogSizes returns the splitting and packing catalog cardinalities at
// (level, ds) — S(l,ds) and P(l,ds) in spec §4.2.
func (lg *Legal) CatalogSizes(level int, ds string) (splitting, packing int, err error) {
	if !lg.ready {
		return 0, 0, errors.New(errors.ErrCodeInternal, "legalize: Init must be called before CatalogSizes")
	}
	dsIdx := -1
	for i, name := range lg.catalogs.DataspaceOrder {
		if name == ds {
			dsIdx = i
			break
		}
	}
	if dsIdx < 0 || level < 0 || level >= len(lg.catalogs.Slots) {
		return 0, 0, errors.New(errors.ErrCodeInvalidConfig, "legalize: no such (level, ds) slot: (%d, %q)", level, ds)
	}
	slot := lg.catalogs.Slot(level, dsIdx)
	return len(slot.Splitting), len(slot.Packing), nil
}

// Catalogs returns the full splitting/packing catalog set Init built, for
// callers that need to walk every option directly (e.g. rendering the
// design-space lattice) rather than just its cardinalities.
func (lg *Legal) Catalogs() (*designspace.Catalogs, error) {
	if !lg.ready {
		return nil, errors.New(errors.ErrCodeInternal, "legalize: Init must be called before Catalogs")
	}
	return lg.catalogs, nil
}

// GlobalSizes returns splitting_candidates and packing_candidates, the
// flattened global design-space sizes (spec §4.2).
func (lg *Legal) GlobalSizes() (splitting, packing uint64, err error) {
	if !lg.ready {
		return 0, 0, errors.New(errors.ErrCodeInternal, "legalize: Init must be called before GlobalSizes")
	}
	return lg.catalogs.SplittingCandidates, lg.catalogs.PackingCandidates, nil
}

// Construct materializes the layout at (splittingID, packingID) (spec
// §4.3). Each call resets to the concordant baseline; no state
// accumulates across calls.
func (lg *Legal) Construct(ctx context.Context, splittingID, packingID uint64) (layout.Layout, error) {
	if !lg.ready {
		return layout.Layout{}, errors.New(errors.ErrCodeInternal, "legalize: Init must be called before Construct")
	}
	return materialize.Construct(ctx, lg.concordant, lg.catalogs, lg.arch, splittingID, packingID,
		materialize.Options{StrictIDBounds: lg.strictIDBounds})
}

// Sequential returns the fallback, non-enumerative layout (spec §4.4): a
// single valid layout with every overflowing slot resolved greedily,
// without choosing among catalog options.
func (lg *Legal) Sequential() (layout.Layout, error) {
	if !lg.ready {
		return layout.Layout{}, errors.New(errors.ErrCodeInternal, "legalize: Init must be called before Sequential")
	}
	return sequential.Resolve(lg.concordant, lg.ctx, lg.arch), nil
}
