package numeric

import (
	"reflect"
	"testing"
)

func TestDivisors(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{1, nil},
		{2, []int{2}},
		{4, []int{2, 4}},
		{12, []int{2, 3, 4, 6, 12}},
		{16, []int{2, 4, 8, 16}},
		{17, []int{17}},
	}
	for _, tt := range tests {
		if got := Divisors(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Divisors(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestDivisorsWithOne(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, nil},
		{1, []int{1}},
		{4, []int{1, 2, 4}},
		{12, []int{1, 2, 3, 4, 6, 12}},
	}
	for _, tt := range tests {
		if got := DivisorsWithOne(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DivisorsWithOne(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
