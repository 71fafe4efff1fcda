package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/layout"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/core/workload"
	"github.com/maeri-project/timeloop/pkg/errors"
)

// rawDocument mirrors the TOML shape described in spec §6: one table per
// external-layer input, plus a repeated [[layout]] block for the
// configuration entry format.
type rawDocument struct {
	DimensionBounds map[string]int `toml:"dimension_bounds"`
	Rank            []rawRank      `toml:"rank"`
	Dataspace       []rawDataspace `toml:"dataspace"`
	StorageLevel    []rawLevel     `toml:"storage_level"`
	Bypass          []rawBypass    `toml:"bypass"`
	Mapping         rawMapping     `toml:"mapping"`
	Layout          []rawLayout    `toml:"layout"`
}

type rawRank struct {
	Name         string   `toml:"name"`
	Dims         []string `toml:"dims"`
	Coefficients []int    `toml:"coefficients"`
	ZeroPadding  int      `toml:"zero_padding"`
}

type rawDataspace struct {
	Name  string   `toml:"name"`
	Ranks []string `toml:"ranks"`
	Keep  []bool   `toml:"keep"`
}

type rawLevel struct {
	Name           string `toml:"name"`
	TotalCapacity  int    `toml:"total_capacity"`
	LineCapacity   int    `toml:"line_capacity"`
	ReadBandwidth  int    `toml:"read_bandwidth"`
	WriteBandwidth int    `toml:"write_bandwidth"`
	NumReadPorts   int    `toml:"num_read_ports"`
	NumWritePorts  int    `toml:"num_write_ports"`
}

type rawBypass struct {
	Dataspace string `toml:"dataspace"`
	Keep      []bool `toml:"keep"`
}

type rawMapping struct {
	StorageTilingBoundaries []int     `toml:"storage_tiling_boundaries"`
	Loop                    []rawLoop `toml:"loop"`
}

type rawLoop struct {
	Dim       string `toml:"dim"`
	End       int    `toml:"end"`
	Spacetime string `toml:"spacetime"`
}

// rawLayout is one "Configuration entry format" block: a (target, type)
// pair carrying space-separated RANK=INT factors and, for intraline
// entries, a permutation string consumed reversed (spec §6).
type rawLayout struct {
	Target      string `toml:"target"`
	Type        string `toml:"type"`
	Factors     string `toml:"factors"`
	Permutation string `toml:"permutation"`
}

// Document is the parsed, validated external-layer input set: everything
// pkg/core/legalize.New needs, plus the initial layout a configuration
// may seed instead of the all-ones dummy skeleton (spec §6).
type Document struct {
	Context *workload.Context
	Mapping mapping.LoopNest
	Arch    archspec.List
	Layout  layout.Layout
}

// Load reads and parses path as a TOML document in the configuration
// entry format (spec §6) and builds the core's input types from it.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse builds a Document from raw TOML bytes.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse TOML config")
	}
	return build(raw)
}

func build(raw rawDocument) (*Document, error) {
	bypass := make(mapping.BypassNest, len(raw.Bypass))
	for _, b := range raw.Bypass {
		bypass[b.Dataspace] = b.Keep
	}

	ranks := make([]workload.Rank, len(raw.Rank))
	for i, r := range raw.Rank {
		ranks[i] = workload.Rank{
			Name:         r.Name,
			Dims:         r.Dims,
			Coefficients: r.Coefficients,
			ZeroPadding:  r.ZeroPadding,
		}
	}

	dataspaces := make([]workload.Dataspace, len(raw.Dataspace))
	for i, d := range raw.Dataspace {
		keep := d.Keep
		if override, ok := bypass[d.Name]; ok {
			keep = override
		}
		dataspaces[i] = workload.Dataspace{Name: d.Name, Ranks: d.Ranks, Keep: keep}
	}

	ctx, err := workload.NewContext(ranks, dataspaces, raw.DimensionBounds)
	if err != nil {
		return nil, err
	}

	arch := make(archspec.List, len(raw.StorageLevel))
	for i, lvl := range raw.StorageLevel {
		arch[i] = archspec.Level{
			Name:              lvl.Name,
			TotalCapacitySpec: lvl.TotalCapacity,
			LineCapacitySpec:  lvl.LineCapacity,
			ReadBandwidth:     lvl.ReadBandwidth,
			WriteBandwidth:    lvl.WriteBandwidth,
			NumReadPorts:      lvl.NumReadPorts,
			NumWritePorts:     lvl.NumWritePorts,
		}
	}

	loops := make([]mapping.Loop, len(raw.Mapping.Loop))
	for i, l := range raw.Mapping.Loop {
		spacetime, err := parseSpacetime(l.Spacetime)
		if err != nil {
			return nil, err
		}
		loops[i] = mapping.Loop{Dim: l.Dim, End: l.End, Spacetime: spacetime}
	}
	nest := mapping.LoopNest{
		Loops:                   loops,
		StorageTilingBoundaries: raw.Mapping.StorageTilingBoundaries,
	}
	if err := nest.Validate(); err != nil {
		return nil, err
	}

	initial, err := buildInitialLayout(arch, ctx, raw.Layout)
	if err != nil {
		return nil, err
	}

	return &Document{Context: ctx, Mapping: nest, Arch: arch, Layout: initial}, nil
}

func parseSpacetime(s string) (mapping.Spacetime, error) {
	switch strings.ToLower(s) {
	case "", "temporal":
		return mapping.Temporal, nil
	case "spatial-x", "spatial_x", "spatialx":
		return mapping.SpatialX, nil
	case "spatial-y", "spatial_y", "spatialy":
		return mapping.SpatialY, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown spacetime dimension %q", s)
	}
}

// buildInitialLayout seeds an all-ones skeleton per level (spec §6's
// "dummy builder" fallback) and then overwrites it with any
// configuration-supplied [[layout]] entries.
func buildInitialLayout(arch archspec.List, ctx *workload.Context, entries []rawLayout) (layout.Layout, error) {
	l := layout.Layout{Levels: make([]layout.LevelEntry, len(arch))}
	for i, lvl := range arch {
		l.Levels[i] = layout.LevelEntry{
			Nests:         make(map[string]layout.Nest, len(ctx.DataspaceOrder)),
			NumReadPorts:  lvl.NumReadPorts,
			NumWritePorts: lvl.NumWritePorts,
		}
		for _, dsName := range ctx.DataspaceOrder {
			ds, ok := ctx.Dataspace(dsName)
			if !ok {
				continue
			}
			l.Levels[i].Nests[dsName] = layout.NewNest(ds.Ranks)
		}
	}

	levelIndex := make(map[string]int, len(arch))
	for i, lvl := range arch {
		levelIndex[lvl.Name] = i
	}

	for _, entry := range entries {
		level, ok := levelIndex[entry.Target]
		if !ok {
			return layout.Layout{}, errors.New(errors.ErrCodeInvalidConfig, "layout entry targets unknown storage level %q", entry.Target)
		}
		factors, err := parseFactors(entry.Factors)
		if err != nil {
			return layout.Layout{}, err
		}
		for _, dsName := range ctx.DataspaceOrder {
			nest, ok := l.Nest(level, dsName)
			if !ok {
				continue
			}
			target, err := selectField(entry.Type, nest)
			if err != nil {
				return layout.Layout{}, err
			}
			for rank, factor := range factors {
				if _, ok := target[rank]; ok {
					target[rank] = factor
				}
			}
			if entry.Type == "intraline" && entry.Permutation != "" {
				nest.Permutation = permutationRanks(entry.Permutation)
			} else if entry.Type == "intraline" && entry.Permutation == "" && len(entry.Factors) > 0 {
				return layout.Layout{}, errors.New(errors.ErrCodeMissingPermutation, "layout entry for target %q has factors but no permutation", entry.Target)
			}
			l.SetNest(level, dsName, nest)
		}
	}
	return l, nil
}

func selectField(entryType string, n layout.Nest) (map[string]int, error) {
	switch entryType {
	case "intraline":
		return n.Intraline, nil
	case "interline":
		return n.Interline, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown layout entry type %q", entryType)
	}
}

// parseFactors splits a space-separated "RANK=INT" list (spec §6).
func parseFactors(s string) (map[string]int, error) {
	factors := make(map[string]int)
	for _, field := range strings.Fields(s) {
		rank, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "malformed factor entry %q, want RANK=INT", field)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "malformed factor value in %q", field)
		}
		factors[rank] = n
	}
	return factors, nil
}

// permutationRanks consumes the character-string permutation reversed, so
// the left-most rank in the configuration entry becomes the outermost
// (last) entry of the returned innermost-first order (spec §6).
func permutationRanks(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[len(runes)-1-i] = string(r)
	}
	return out
}
