package workload

import (
	"fmt"

	"github.com/maeri-project/timeloop/pkg/errors"
)

// Rank is a named index of a dataspace. A rank may be a compound of one or
// more primitive factorized dimensions, each contributing an integer
// coefficient to the rank's address stride (spec §3).
type Rank struct {
	Name string

	// Dims are the factorized dimension IDs composing this rank, ordered
	// from least to most significant. A simple rank has exactly one dim.
	Dims []string

	// Coefficients holds, per entry in Dims (same order, same length), the
	// integer multiplier that dimension contributes to the rank's address.
	Coefficients []int

	// ZeroPadding is the optional zero-padding amount applied at the
	// outermost storage level (spec §4.1 step 4). Zero if the rank has no
	// boundary padding.
	ZeroPadding int
}

// Dataspace is one tensor of the workload (inputs, weights, outputs, ...),
// addressed by an ordered list of ranks. Keep records, per storage level,
// whether the dataspace is retained (true) or bypassed (false) there.
type Dataspace struct {
	Name  string
	Ranks []string // ordered rank names; the dataspace's addressing decomposition
	Keep  []bool   // indexed by storage level, innermost first (level 0 is closest to compute)
}

// KeepAt reports whether the dataspace is retained at the given storage
// level. Levels beyond the configured Keep slice default to true (kept) —
// a dataspace is assumed resident unless explicitly bypassed.
func (d Dataspace) KeepAt(level int) bool {
	if level < 0 || level >= len(d.Keep) {
		return true
	}
	return d.Keep[level]
}

// Context is the immutable, reference-shared workload-wide table set: every
// rank and dataspace definition, plus per-dimension extent bounds. It is
// built once (typically by pkg/config) and never mutated afterward; every
// core component receives it by pointer and must not write through it.
type Context struct {
	// RankOrder and DataspaceOrder fix deterministic iteration order for
	// catalog construction and mixed-radix ID decoding (spec §4.3): the
	// materializer's slot order depends on dataspace order being stable
	// across calls.
	RankOrder      []string
	DataspaceOrder []string

	ranks      map[string]Rank
	dataspaces map[string]Dataspace

	// DimensionBounds gives the extent bound of each factorized dimension
	// named in some rank's Dims, keyed by dimension ID.
	DimensionBounds map[string]int
}

// NewContext builds a Context from rank and dataspace definitions, fixing
// iteration order to the order the slices are given in.
func NewContext(ranks []Rank, dataspaces []Dataspace, dimensionBounds map[string]int) (*Context, error) {
	ctx := &Context{
		ranks:           make(map[string]Rank, len(ranks)),
		dataspaces:      make(map[string]Dataspace, len(dataspaces)),
		DimensionBounds: dimensionBounds,
	}
	for _, r := range ranks {
		ctx.ranks[r.Name] = r
		ctx.RankOrder = append(ctx.RankOrder, r.Name)
	}
	for _, d := range dataspaces {
		ctx.dataspaces[d.Name] = d
		ctx.DataspaceOrder = append(ctx.DataspaceOrder, d.Name)
	}
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Rank looks up a rank definition by name.
func (c *Context) Rank(name string) (Rank, bool) {
	r, ok := c.ranks[name]
	return r, ok
}

// Dataspace looks up a dataspace definition by name.
func (c *Context) Dataspace(name string) (Dataspace, bool) {
	d, ok := c.dataspaces[name]
	return d, ok
}

// Validate enforces the configuration-fatal invariants from spec §6/§7:
// every dataspace must have a non-empty rank list, and every rank it
// references must be defined. Every rank must have one coefficient per dim,
// and any coefficient of 0 is rejected as a division-by-zero input, since
// it would make §4.1 step 4's extent composition ill-defined.
func (c *Context) Validate() error {
	for _, name := range c.DataspaceOrder {
		ds := c.dataspaces[name]
		if len(ds.Ranks) == 0 {
			return errors.New(errors.ErrCodeEmptyRankList, "dataspace %q has no ranks", name)
		}
		for _, rankName := range ds.Ranks {
			if _, ok := c.ranks[rankName]; !ok {
				return errors.New(errors.ErrCodeInvalidConfig, "dataspace %q references undefined rank %q", name, rankName)
			}
		}
	}
	for _, name := range c.RankOrder {
		r := c.ranks[name]
		if len(r.Dims) != len(r.Coefficients) {
			return errors.New(errors.ErrCodeInvalidConfig, "rank %q has %d dims but %d coefficients", name, len(r.Dims), len(r.Coefficients))
		}
		for i, coef := range r.Coefficients {
			if coef == 0 {
				return errors.New(errors.ErrCodeDivisionByZero, "rank %q dim %q has zero coefficient", name, r.Dims[i])
			}
		}
	}
	return nil
}

// FullExtent composes rank's untiled, full extent from the workload's
// dimension bounds — the quantity I3 names "the full rank extent (not the
// tile)" that a bypassed dataspace's interline factor takes on.
func (c *Context) FullExtent(rankName string) (int, error) {
	r, ok := c.Rank(rankName)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "rank %q not found", rankName)
	}
	dimValues := make([]int, len(r.Dims))
	for i, d := range r.Dims {
		dimValues[i] = c.DimensionBounds[d]
	}
	return ComposeExtent(dimValues, r.Coefficients), nil
}

// ComposeExtent composes a rank's address extent from its factorized
// dimensions' values and coefficients (spec §4.1 step 4).
//
// A single-dim rank's extent is just its raw dim value; the coefficient
// applies only once a rank spans multiple dims (spec §4.1's Σ formula
// is explicitly scoped to compound ranks). A compound rank
// (len(dimValues) > 1) composes the dims' contributions as
// Σ_{i<last} dim_i*coef_i + (dim_last*coef_last − 1), except a dim at
// value 1 contributes 1 instead of its coefficient-scaled value — and
// the trailing dim contributes nothing at all when its value is 1,
// since the "−1" address-range adjustment only ever applies when that
// last dim actually varies.
func ComposeExtent(dimValues, coefficients []int) int {
	n := len(dimValues)
	switch n {
	case 0:
		return 1
	case 1:
		return dimValues[0]
	}

	last := n - 1
	sum := 0
	for i := 0; i < last; i++ {
		if dimValues[i] == 1 {
			sum += dimValues[i]
		} else {
			sum += dimValues[i] * coefficients[i]
		}
	}
	if dimValues[last] != 1 {
		sum += dimValues[last]*coefficients[last] - 1
	}
	return sum
}

// String renders a rank as "name(dim0*coef0+dim1*coef1+...)", useful in
// error messages and DOT labels.
func (r Rank) String() string {
	s := r.Name
	if len(r.Dims) > 0 {
		s += "("
		for i, d := range r.Dims {
			if i > 0 {
				s += "+"
			}
			s += fmt.Sprintf("%s*%d", d, r.Coefficients[i])
		}
		s += ")"
	}
	return s
}
