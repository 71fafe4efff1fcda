package config

import (
	"testing"

	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/errors"
)

const scenarioADoc = `
[dimension_bounds]
W = 32

[[rank]]
name = "W"
dims = ["W"]
coefficients = [1]

[[dataspace]]
name = "DS"
ranks = ["W"]
keep = [true]

[[storage_level]]
name = "Buf"
line_capacity = 8
num_read_ports = 1
num_write_ports = 1

[mapping]
storage_tiling_boundaries = [1]

[[mapping.loop]]
dim = "W"
end = 32
spacetime = "spatial-x"

[[layout]]
target = "Buf"
type = "intraline"
factors = "W=8"
permutation = "W"
`

func TestParseScenarioA(t *testing.T) {
	doc, err := Parse([]byte(scenarioADoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Arch) != 1 || doc.Arch[0].LineCapacity() != 8 {
		t.Fatalf("Arch = %+v, want one level with line capacity 8", doc.Arch)
	}
	if len(doc.Mapping.Loops) != 1 || doc.Mapping.Loops[0].Spacetime != mapping.SpatialX {
		t.Fatalf("Mapping.Loops = %+v, want one spatial-X loop", doc.Mapping.Loops)
	}
	n, ok := doc.Layout.Nest(0, "DS")
	if !ok {
		t.Fatal("Layout.Nest(0, DS) not found")
	}
	if n.Intraline["W"] != 8 {
		t.Errorf("Intraline[W] = %d, want 8 (from the [[layout]] entry)", n.Intraline["W"])
	}
	if len(n.Permutation) != 1 || n.Permutation[0] != "W" {
		t.Errorf("Permutation = %v, want [W]", n.Permutation)
	}
}

func TestParseBypassOverridesDataspaceKeep(t *testing.T) {
	doc := `
[dimension_bounds]
W = 4

[[rank]]
name = "W"
dims = ["W"]
coefficients = [1]

[[dataspace]]
name = "DS"
ranks = ["W"]
keep = [true, true]

[[bypass]]
dataspace = "DS"
keep = [false, true]

[[storage_level]]
name = "L0"
line_capacity = 8

[[storage_level]]
name = "L1"
line_capacity = 8

[mapping]
storage_tiling_boundaries = [0, 0]
`
	parsed, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	ds, ok := parsed.Context.Dataspace("DS")
	if !ok {
		t.Fatal("Dataspace(DS) not found")
	}
	if ds.KeepAt(0) {
		t.Error("KeepAt(0) = true, want false (overridden by [[bypass]])")
	}
	if !ds.KeepAt(1) {
		t.Error("KeepAt(1) = false, want true")
	}
}

func TestParseUnknownLayoutTarget(t *testing.T) {
	doc := `
[[rank]]
name = "W"
dims = ["W"]
coefficients = [1]

[[dataspace]]
name = "DS"
ranks = ["W"]

[[storage_level]]
name = "Buf"
line_capacity = 8

[[layout]]
target = "NoSuchLevel"
type = "intraline"
factors = "W=2"
permutation = "W"
`
	_, err := Parse([]byte(doc))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Parse() error = %v, want ErrCodeInvalidConfig", err)
	}
}

func TestParseMissingPermutation(t *testing.T) {
	doc := `
[[rank]]
name = "W"
dims = ["W"]
coefficients = [1]

[[dataspace]]
name = "DS"
ranks = ["W"]

[[storage_level]]
name = "Buf"
line_capacity = 8

[[layout]]
target = "Buf"
type = "intraline"
factors = "W=2"
`
	_, err := Parse([]byte(doc))
	if !errors.Is(err, errors.ErrCodeMissingPermutation) {
		t.Errorf("Parse() error = %v, want ErrCodeMissingPermutation", err)
	}
}

func TestParseMalformedFactor(t *testing.T) {
	doc := `
[[rank]]
name = "W"
dims = ["W"]
coefficients = [1]

[[dataspace]]
name = "DS"
ranks = ["W"]

[[storage_level]]
name = "Buf"
line_capacity = 8

[[layout]]
target = "Buf"
type = "intraline"
factors = "W-2"
permutation = "W"
`
	_, err := Parse([]byte(doc))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Parse() error = %v, want ErrCodeInvalidConfig", err)
	}
}
