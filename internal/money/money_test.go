package money

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact", 13.33, 13.33},
		{"half rounds away from zero", 13.335, 13.34},
		{"negative half rounds away from zero", -13.335, -13.34},
		{"float noise", 0.1 + 0.2, 0.3},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round2(tt.in); got != tt.want {
				t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSum(t *testing.T) {
	// Summing many cents must not drift the way naive float addition does.
	amounts := make([]float64, 100)
	for i := range amounts {
		amounts[i] = 0.01
	}
	if got := Sum(amounts...); got != 1.00 {
		t.Errorf("Sum of 100 cents = %v, want 1.00", got)
	}

	if got := Sum(13.34, 13.33, 13.33, -40.00); got != 0 {
		t.Errorf("Sum of balanced batch = %v, want 0", got)
	}
}

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		n     int
		want  []float64
	}{
		{"even split", 30.00, 3, []float64{10.00, 10.00, 10.00}},
		{"remainder cent to first share", 40.00, 3, []float64{13.34, 13.33, 13.33}},
		{"two remainder cents", 1.00, 7, []float64{0.15, 0.15, 0.14, 0.14, 0.14, 0.14, 0.14}},
		{"negative total", -40.00, 3, []float64{-13.34, -13.33, -13.33}},
		{"single share", 9.99, 1, []float64{9.99}},
		{"invalid count", 10.00, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEqually(tt.total, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitEqually(%v, %d) returned %d shares, want %d", tt.total, tt.n, len(got), len(tt.want))
			}
			var sum float64
			for i, share := range got {
				if share != tt.want[i] {
					t.Errorf("share %d = %v, want %v", i, share, tt.want[i])
				}
				sum += share
			}
			if tt.n > 0 && math.Abs(sum-Round2(tt.total)) > 1e-9 {
				t.Errorf("shares sum to %v, want %v", sum, Round2(tt.total))
			}
		})
	}
}
