package vizdot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/designspace"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
)

// NestDOT renders nest's storage levels and their bound loops as a
// Graphviz digraph, outermost level at the top. arch supplies each
// level's name and line capacity for the label.
func NestDOT(nest mapping.LoopNest, arch archspec.List) string {
	var buf bytes.Buffer
	buf.WriteString("digraph LoopNest {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n\n")

	numLevels := nest.NumLevels()
	for level := numLevels - 1; level >= 0; level-- {
		start := 0
		if level > 0 {
			start = nest.StorageTilingBoundaries[level-1]
		}
		end := nest.StorageTilingBoundaries[level]
		label := levelLabel(level, arch, nest.Loops[start:end])
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeName(level), label)
		if level+1 < numLevels {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeName(level+1), nodeName(level))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(level int) string {
	return fmt.Sprintf("level%d", level)
}

func levelLabel(level int, arch archspec.List, loops []mapping.Loop) string {
	name := fmt.Sprintf("L%d", level)
	if level < len(arch) {
		name = arch[level].Name
	}
	parts := []string{fmt.Sprintf("%s (line cap %d)", name, lineCapacityOf(level, arch))}
	for _, l := range loops {
		parts = append(parts, fmt.Sprintf("%s[%d] %s", l.Dim, l.End, l.Spacetime))
	}
	if len(loops) == 0 {
		parts = append(parts, "(no loops)")
	}
	return strings.Join(parts, "\n")
}

func lineCapacityOf(level int, arch archspec.List) int {
	if level < 0 || level >= len(arch) {
		return 0
	}
	return arch[level].LineCapacity()
}

// CatalogDOT renders cat as one node per (level, dataspace) slot, grouped
// into a subgraph per level. Splitting-only slots are ellipses, packing-only
// slots are boxes, empty (already concordant) slots are dashed grey — the
// same Splitting/Packing-vs-concordant distinction spec §4.2 classifies
// slots by.
func CatalogDOT(cat *designspace.Catalogs) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Catalogs {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, style=filled, fillcolor=white];\n\n")

	for level, row := range cat.Slots {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", level)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("level %d", level))
		fmt.Fprintf(&buf, "    style=dashed;\n")
		for dsIdx, slot := range row {
			ds := cat.DataspaceOrder[dsIdx]
			id := fmt.Sprintf("l%d_d%d", level, dsIdx)
			fmt.Fprintf(&buf, "    %q [%s];\n", id, slotAttrs(ds, slot))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func slotAttrs(ds string, slot designspace.Slot) string {
	switch {
	case len(slot.Splitting) > 0:
		return fmt.Sprintf("label=%q, shape=ellipse", fmt.Sprintf("%s\nsplit x%d", ds, len(slot.Splitting)))
	case len(slot.Packing) > 0:
		return fmt.Sprintf("label=%q, shape=box", fmt.Sprintf("%s\npack x%d", ds, len(slot.Packing)))
	default:
		return fmt.Sprintf("label=%q, shape=box, style=\"filled,dashed\", fillcolor=lightgrey", ds+"\nconcordant")
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz, normalizing the
// viewBox the same way pkg/render/nodelink does so embedded diagrams scale
// predictably.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
