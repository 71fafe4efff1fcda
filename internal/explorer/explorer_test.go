package explorer

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/legalize"
	"github.com/maeri-project/timeloop/pkg/core/mapping"
	"github.com/maeri-project/timeloop/pkg/core/workload"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	ranks := []workload.Rank{{Name: "W", Dims: []string{"W"}, Coefficients: []int{1}}}
	dataspaces := []workload.Dataspace{{Name: "DS", Ranks: []string{"W"}, Keep: []bool{true}}}
	ctx, err := workload.NewContext(ranks, dataspaces, map[string]int{"W": 32})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	nest := mapping.LoopNest{
		Loops:                   []mapping.Loop{{Dim: "W", End: 32, Spacetime: mapping.SpatialX}},
		StorageTilingBoundaries: []int{1},
	}
	arch := archspec.List{{Name: "Buf", LineCapacitySpec: 8}}

	lg := legalize.New(ctx, arch, nest)
	if err := lg.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	m, err := New(lg, arch)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestModelNavigatesRows(t *testing.T) {
	m := newTestModel(t)
	if len(m.rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(m.rows))
	}
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor after down at last row = %d, want 0 (clamped)", m.cursor)
	}
}

func TestModelDrillsIntoSlot(t *testing.T) {
	m := newTestModel(t)
	if m.optionCount() == 0 {
		t.Fatal("expected the one overflowing slot to have splitting options")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.viewing {
		t.Fatal("expected enter to drill into the slot's option list")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.viewing {
		t.Fatal("expected esc to back out of the slot view")
	}
}

func TestModelQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected ctrl+c to return a quit command")
	}
}

func TestModelViewRendersWithoutPanic(t *testing.T) {
	m := newTestModel(t)
	if out := m.View(); out == "" {
		t.Error("View() returned empty string")
	}
}
