package workload

import (
	"testing"

	"github.com/maeri-project/timeloop/pkg/errors"
)

func TestNewContextValid(t *testing.T) {
	ranks := []Rank{
		{Name: "M", Dims: []string{"M"}, Coefficients: []int{1}},
		{Name: "N", Dims: []string{"N"}, Coefficients: []int{1}},
	}
	dataspaces := []Dataspace{
		{Name: "Inputs", Ranks: []string{"M", "N"}, Keep: []bool{true}},
	}

	ctx, err := NewContext(ranks, dataspaces, map[string]int{"M": 4, "N": 4})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	if len(ctx.RankOrder) != 2 {
		t.Errorf("RankOrder = %v, want 2 entries", ctx.RankOrder)
	}
	if _, ok := ctx.Dataspace("Inputs"); !ok {
		t.Error("Dataspace(Inputs) not found")
	}
}

func TestNewContextEmptyRankList(t *testing.T) {
	dataspaces := []Dataspace{{Name: "Bad", Ranks: nil}}
	_, err := NewContext(nil, dataspaces, nil)
	if !errors.Is(err, errors.ErrCodeEmptyRankList) {
		t.Fatalf("NewContext() error = %v, want ErrCodeEmptyRankList", err)
	}
}

func TestNewContextUndefinedRank(t *testing.T) {
	dataspaces := []Dataspace{{Name: "Bad", Ranks: []string{"Ghost"}}}
	_, err := NewContext(nil, dataspaces, nil)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("NewContext() error = %v, want ErrCodeInvalidConfig", err)
	}
}

func TestNewContextZeroCoefficient(t *testing.T) {
	ranks := []Rank{{Name: "M", Dims: []string{"M0", "M1"}, Coefficients: []int{1, 0}}}
	dataspaces := []Dataspace{{Name: "DS", Ranks: []string{"M"}}}
	_, err := NewContext(ranks, dataspaces, nil)
	if !errors.Is(err, errors.ErrCodeDivisionByZero) {
		t.Fatalf("NewContext() error = %v, want ErrCodeDivisionByZero", err)
	}
}

func TestDataspaceKeepAt(t *testing.T) {
	ds := Dataspace{Name: "W", Ranks: []string{"M"}, Keep: []bool{true, false}}
	if !ds.KeepAt(0) {
		t.Error("KeepAt(0) = false, want true")
	}
	if ds.KeepAt(1) {
		t.Error("KeepAt(1) = true, want false")
	}
	if !ds.KeepAt(5) {
		t.Error("KeepAt(5) (out of range) = false, want true (default kept)")
	}
}

func TestComposeExtent(t *testing.T) {
	tests := []struct {
		name         string
		dimValues    []int
		coefficients []int
		want         int
	}{
		{"single dim", []int{4}, []int{1}, 4},
		{"single dim ignores coefficient", []int{4}, []int{2}, 4},
		{"compound all ones", []int{1, 1}, []int{1, 4}, 1},
		{"compound with spatial activity", []int{2, 4}, []int{1, 4}, 2*1 + 4*4 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeExtent(tt.dimValues, tt.coefficients); got != tt.want {
				t.Errorf("ComposeExtent(%v, %v) = %d, want %d", tt.dimValues, tt.coefficients, got, tt.want)
			}
		})
	}
}

func TestFullExtent(t *testing.T) {
	ranks := []Rank{{Name: "M", Dims: []string{"M0", "M1"}, Coefficients: []int{1, 4}}}
	dataspaces := []Dataspace{{Name: "DS", Ranks: []string{"M"}}}
	ctx, err := NewContext(ranks, dataspaces, map[string]int{"M0": 4, "M1": 2})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	got, err := ctx.FullExtent("M")
	if err != nil {
		t.Fatalf("FullExtent() error = %v", err)
	}
	if want := 4*1 + 2*4 - 1; got != want {
		t.Errorf("FullExtent() = %d, want %d", got, want)
	}
	if _, err := ctx.FullExtent("Ghost"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("FullExtent(Ghost) error = %v, want ErrCodeInvalidConfig", err)
	}
}

func TestRankString(t *testing.T) {
	r := Rank{Name: "M", Dims: []string{"M0", "M1"}, Coefficients: []int{1, 4}}
	if got, want := r.String(), "M(M0*1+M1*4)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
