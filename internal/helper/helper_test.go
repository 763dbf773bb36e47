package helper

import "testing"

func TestNormTF(t *testing.T) {
	cases := map[string]string{
		"1H":        "1h",
		"60m":       "1h",
		"240m":      "4h",
		"candle15m": "15m",
		" 5m ":      "5m",
		"d":         "1d",
		"3m":        "3m",
	}
	for in, want := range cases {
		if got := NormTF(in); got != want {
			t.Errorf("NormTF(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPercentile(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 3},
		{100, 5},
		{25, 2},
		{75, 4},
		{10, 1.4},
	}
	for _, tc := range cases {
		if got := Percentile(vals, tc.p); got != tc.want {
			t.Errorf("Percentile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestPercentileUnsortedInput(t *testing.T) {
	if got := Percentile([]float64{5, 1, 4, 2, 3}, 50); got != 3 {
		t.Fatalf("median = %v, want 3", got)
	}
}

func TestPercentileEmpty(t *testing.T) {
	if got := Percentile(nil, 50); got != 0 {
		t.Fatalf("empty percentile = %v, want 0", got)
	}
}

func TestMaxSlice(t *testing.T) {
	if got := MaxSlice([]float64{3, -1, 7, 2}); got != 7 {
		t.Fatalf("max = %v", got)
	}
	if got := MaxSlice([]float64{-5}); got != -5 {
		t.Fatalf("max = %v", got)
	}
}
