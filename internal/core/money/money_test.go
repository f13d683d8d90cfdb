package money

import "testing"

func TestDiscountedUnit(t *testing.T) {
	tests := []struct {
		name     string
		list     Amount
		discount float64
		want     Amount
	}{
		{"45 percent off a million", 1_000_000, 0.45, 550_000},
		{"no discount", 250_000, 0, 250_000},
		{"rounds half up", 999, 0.5, 500}, // 999*0.5 = 499.5
		{"full discount", 100_000, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiscountedUnit(tt.list, tt.discount); got != tt.want {
				t.Errorf("DiscountedUnit(%d, %v) = %d, want %d", tt.list, tt.discount, got, tt.want)
			}
		})
	}
}

func TestRoundRate(t *testing.T) {
	if got := RoundRate(1_100_000, 0.06); got != 66_000 {
		t.Errorf("RoundRate(1100000, 0.06) = %d, want 66000", got)
	}
	if got := RoundRate(12_345, 0.1); got != 1_235 { // 1234.5 rounds up
		t.Errorf("RoundRate(12345, 0.1) = %d, want 1235", got)
	}
}

func TestTruncateToThousand(t *testing.T) {
	tests := []struct {
		in, want Amount
	}{
		{21_000, 21_000},
		{21_999, 21_000},
		{999, 0},
		{0, 0},
		{1_000, 1_000},
	}

	for _, tt := range tests {
		if got := TruncateToThousand(tt.in); got != tt.want {
			t.Errorf("TruncateToThousand(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncationLaw(t *testing.T) {
	// T <= S and S - T < 1000 for any non-negative sum.
	for _, s := range []Amount{0, 1, 999, 1_000, 1_001, 21_000, 1_234_567} {
		tr := TruncateToThousand(s)
		if tr > s {
			t.Errorf("truncated %d exceeds raw %d", tr, s)
		}
		if s-tr >= 1000 {
			t.Errorf("truncation leakage %d for raw %d", s-tr, s)
		}
	}
}

func TestAddVAT(t *testing.T) {
	if got := AddVAT(21_000); got != 23_100 {
		t.Errorf("AddVAT(21000) = %d, want 23100", got)
	}
	// Grand total is never below the subtotal.
	for _, s := range []Amount{0, 1_000, 55_000, 1_000_000} {
		if AddVAT(s) < s {
			t.Errorf("AddVAT(%d) below subtotal", s)
		}
	}
}
