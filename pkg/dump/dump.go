package dump

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/layout"
	"github.com/maeri-project/timeloop/pkg/core/workload"
)

// Block is one (target, type) dump entry — the same schema pkg/config
// reads as a [[layout]] configuration entry (spec §6).
type Block struct {
	Target      string         `json:"target"`
	Type        string         `json:"type"`
	Factors     map[string]int `json:"factors"`
	Permutation []string       `json:"permutation,omitempty"`
}

// Blocks merges l's per-(level, ds) nests into one block per (target,
// type). When multiple kept dataspaces disagree on a rank's factor, the
// max is taken (spec §6). Permutation is carried from the first kept
// dataspace's nest at that level — the schema has no per-dataspace
// permutation merge rule, so this is a representative choice rather than
// an aggregate.
func Blocks(l layout.Layout, ctx *workload.Context, arch archspec.List) []Block {
	var blocks []Block
	for level := 0; level < len(l.Levels) && level < len(arch); level++ {
		for _, kind := range []string{"intraline", "interline"} {
			factors := make(map[string]int)
			var permutation []string
			for _, dsName := range ctx.DataspaceOrder {
				ds, ok := ctx.Dataspace(dsName)
				if !ok || !ds.KeepAt(level) {
					continue
				}
				nest, ok := l.Nest(level, dsName)
				if !ok {
					continue
				}
				src := nest.Interline
				if kind == "intraline" {
					src = nest.Intraline
				}
				for rank, value := range src {
					if cur, ok := factors[rank]; !ok || value > cur {
						factors[rank] = value
					}
				}
				if permutation == nil && len(nest.Permutation) > 0 {
					permutation = nest.Permutation
				}
			}
			if len(factors) == 0 {
				continue
			}
			block := Block{Target: arch[level].Name, Type: kind, Factors: factors}
			if kind == "intraline" {
				block.Permutation = permutation
			}
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// Write emits the dump format (spec §6) to w: one [[layout]]-shaped TOML
// block per (target, type), ranks within each block sorted for
// deterministic output.
func Write(w io.Writer, l layout.Layout, ctx *workload.Context, arch archspec.List) error {
	for _, block := range Blocks(l, ctx, arch) {
		if _, err := fmt.Fprintf(w, "[[layout]]\ntarget = %q\ntype = %q\nfactors = %q\n",
			block.Target, block.Type, formatFactors(block.Factors)); err != nil {
			return err
		}
		if len(block.Permutation) > 0 {
			if _, err := fmt.Fprintf(w, "permutation = %q\n", strings.Join(block.Permutation, "")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatFactors(factors map[string]int) string {
	ranks := make([]string, 0, len(factors))
	for r := range factors {
		ranks = append(ranks, r)
	}
	sort.Strings(ranks)
	parts := make([]string, len(ranks))
	for i, r := range ranks {
		parts[i] = fmt.Sprintf("%s=%d", r, factors[r])
	}
	return strings.Join(parts, " ")
}

// MarshalJSON renders l's dump blocks as JSON, for interchange with a
// cost model consuming the materialized layout downstream (spec §6).
func MarshalJSON(l layout.Layout, ctx *workload.Context, arch archspec.List) ([]byte, error) {
	return json.Marshal(Blocks(l, ctx, arch))
}

// UnmarshalJSON parses a JSON-encoded dump back into blocks.
func UnmarshalJSON(data []byte) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}
