package layout

import (
	"github.com/maeri-project/timeloop/pkg/errors"
)

// Nest is one (storage level, dataspace) layout entry: a pair of
// rank→factor maps plus the permutation order over those ranks (spec §3,
// §6 — the configuration entry format's "permutation" field is this order,
// consumed reversed so the left-most rank is outermost).
type Nest struct {
	Intraline   map[string]int
	Interline   map[string]int
	Permutation []string
}

// NewNest returns an all-ones skeleton nest over ranks, in the given
// order — the "dummy" construction spec §6 names as an alternative to a
// configuration-supplied initial layout.
func NewNest(ranks []string) Nest {
	n := Nest{
		Intraline:   make(map[string]int, len(ranks)),
		Interline:   make(map[string]int, len(ranks)),
		Permutation: append([]string(nil), ranks...),
	}
	for _, r := range ranks {
		n.Intraline[r] = 1
		n.Interline[r] = 1
	}
	return n
}

// Clone returns a deep copy of n, independent of the original's maps.
func (n Nest) Clone() Nest {
	c := Nest{
		Intraline:   make(map[string]int, len(n.Intraline)),
		Interline:   make(map[string]int, len(n.Interline)),
		Permutation: append([]string(nil), n.Permutation...),
	}
	for r, v := range n.Intraline {
		c.Intraline[r] = v
	}
	for r, v := range n.Interline {
		c.Interline[r] = v
	}
	return c
}

// IntralineProduct returns the product of intraline factors across every
// rank in the nest — the quantity I1 bounds against a level's line
// capacity.
func (n Nest) IntralineProduct() int {
	product := 1
	for _, v := range n.Intraline {
		product *= v
	}
	return product
}

// InterlineProduct returns the product of interline factors across every
// rank in the nest.
func (n Nest) InterlineProduct() int {
	product := 1
	for _, v := range n.Interline {
		product *= v
	}
	return product
}

// LevelEntry is one storage level's worth of layout: a Nest per
// dataspace, plus the level's static port counts (spec §3).
type LevelEntry struct {
	Nests         map[string]Nest
	NumReadPorts  int
	NumWritePorts int
}

func (e LevelEntry) clone() LevelEntry {
	c := LevelEntry{
		Nests:         make(map[string]Nest, len(e.Nests)),
		NumReadPorts:  e.NumReadPorts,
		NumWritePorts: e.NumWritePorts,
	}
	for ds, n := range e.Nests {
		c.Nests[ds] = n.Clone()
	}
	return c
}

// Layout is the full sequence of per-storage-level entries, innermost
// level first (spec §3).
type Layout struct {
	Levels []LevelEntry
}

// Clone returns a deep copy of l. The materializer calls this on every
// construct invocation to reset to the concordant baseline before
// applying a decoded option vector — the concordant Layout itself is
// never mutated in place.
func (l Layout) Clone() Layout {
	c := Layout{Levels: make([]LevelEntry, len(l.Levels))}
	for i, e := range l.Levels {
		c.Levels[i] = e.clone()
	}
	return c
}

// Nest returns the (level, ds) nest, and whether it exists.
func (l Layout) Nest(level int, ds string) (Nest, bool) {
	if level < 0 || level >= len(l.Levels) {
		return Nest{}, false
	}
	n, ok := l.Levels[level].Nests[ds]
	return n, ok
}

// SetNest overwrites the (level, ds) nest.
func (l *Layout) SetNest(level int, ds string, n Nest) {
	l.Levels[level].Nests[ds] = n
}

// ValidateCapacity checks invariant I1 for one kept (level, ds) slot:
// the intraline product must not exceed the level's line capacity.
// Returns an [errors.ErrCodeInvariantBreach] error on violation — this is
// the post-construct assertion spec §4.3 step 6 and §7 describe as an
// internal-consistency bug, never a user-correctable condition.
func ValidateCapacity(level int, ds string, n Nest, lineCapacity int) error {
	if product := n.IntralineProduct(); product > lineCapacity {
		return errors.New(errors.ErrCodeInvariantBreach,
			"I1 violated at level %d, dataspace %q: intraline product %d exceeds line capacity %d",
			level, ds, product, lineCapacity)
	}
	return nil
}
