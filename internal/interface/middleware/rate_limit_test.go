package middleware

import "testing"

func TestRemainingClampsAtZero(t *testing.T) {
	tests := []struct {
		name       string
		max, count int
		want       int
	}{
		{"first hit", 5, 1, 4},
		{"at limit", 5, 5, 0},
		{"over limit", 5, 6, 0},
		{"far over limit", 5, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := remaining(tt.max, tt.count); got != tt.want {
				t.Errorf("remaining(%d, %d) = %d, want %d", tt.max, tt.count, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	if got := toInt(int64(7)); got != 7 {
		t.Errorf("int64: got %d", got)
	}
	if got := toInt("12"); got != 12 {
		t.Errorf("string: got %d", got)
	}
	if got := toInt(3.5); got != 0 {
		t.Errorf("unsupported type: got %d, want 0", got)
	}
}
