package archspec

import "testing"

func TestLineCapacityFallback(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		want  int
	}{
		{
			name:  "explicit line capacity wins",
			level: Level{LineCapacitySpec: 16, ReadBandwidth: 64, WriteBandwidth: 32},
			want:  16,
		},
		{
			name:  "falls back to max bandwidth",
			level: Level{ReadBandwidth: 64, WriteBandwidth: 32},
			want:  64,
		},
		{
			name:  "falls back to write bandwidth if larger",
			level: Level{ReadBandwidth: 8, WriteBandwidth: 32},
			want:  32,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.LineCapacity(); got != tt.want {
				t.Errorf("LineCapacity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotalCapacityUnbounded(t *testing.T) {
	l := Level{}
	if !l.IsUnbounded() {
		t.Error("IsUnbounded() = false, want true for zero-value level")
	}
	l.TotalCapacitySpec = 1024
	if l.IsUnbounded() {
		t.Error("IsUnbounded() = true, want false once configured")
	}
	if l.TotalCapacity() != 1024 {
		t.Errorf("TotalCapacity() = %d, want 1024", l.TotalCapacity())
	}
}
