package dump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/layout"
	"github.com/maeri-project/timeloop/pkg/core/workload"
)

func newFixture(t *testing.T) (layout.Layout, *workload.Context, archspec.List) {
	t.Helper()
	ranks := []workload.Rank{
		{Name: "W", Dims: []string{"W"}, Coefficients: []int{1}},
	}
	dataspaces := []workload.Dataspace{
		{Name: "A", Ranks: []string{"W"}, Keep: []bool{true}},
		{Name: "B", Ranks: []string{"W"}, Keep: []bool{true}},
	}
	ctx, err := workload.NewContext(ranks, dataspaces, map[string]int{"W": 32})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	arch := archspec.List{{Name: "Buf", LineCapacitySpec: 8}}

	l := layout.Layout{Levels: []layout.LevelEntry{{Nests: map[string]layout.Nest{}}}}
	na := layout.NewNest([]string{"W"})
	na.Intraline["W"] = 4
	na.Interline["W"] = 8
	l.SetNest(0, "A", na)
	nb := layout.NewNest([]string{"W"})
	nb.Intraline["W"] = 8
	nb.Interline["W"] = 4
	l.SetNest(0, "B", nb)

	return l, ctx, arch
}

func TestBlocksTakesMaxAcrossDataspaces(t *testing.T) {
	l, ctx, arch := newFixture(t)
	blocks := Blocks(l, ctx, arch)

	var intraline, interline *Block
	for i := range blocks {
		switch blocks[i].Type {
		case "intraline":
			intraline = &blocks[i]
		case "interline":
			interline = &blocks[i]
		}
	}
	if intraline == nil || intraline.Factors["W"] != 8 {
		t.Errorf("intraline block = %+v, want factors[W] = 8 (max of 4, 8)", intraline)
	}
	if interline == nil || interline.Factors["W"] != 8 {
		t.Errorf("interline block = %+v, want factors[W] = 8 (max of 8, 4)", interline)
	}
}

func TestWriteEmitsOneBlockPerTargetType(t *testing.T) {
	l, ctx, arch := newFixture(t)
	var buf bytes.Buffer
	if err := Write(&buf, l, ctx, arch); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	if strings.Count(out, "[[layout]]") != 2 {
		t.Errorf("Write() output = %q, want 2 [[layout]] blocks", out)
	}
	if !strings.Contains(out, `target = "Buf"`) {
		t.Errorf("Write() output missing target: %q", out)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	l, ctx, arch := newFixture(t)
	data, err := MarshalJSON(l, ctx, arch)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	blocks, err := UnmarshalJSON(data)
	if err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if len(blocks) != 2 {
		t.Errorf("got %d blocks, want 2", len(blocks))
	}
}
