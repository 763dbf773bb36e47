package helper

import (
	"math"
	"sort"
	"strings"
)

func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "1h":
		return "1h"
	case "240m", "4h":
		return "4h"
	case "15m":
		return "15m"
	case "5m":
		return "5m"
	case "1d", "d":
		return "1d"
	default:
		return s
	}
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between closest ranks. Input order does not matter.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	sort.Float64s(vals)

	k := float64(len(vals)-1) * (p / 100)
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return vals[int(k)]
	}
	d0 := vals[int(f)] * (c - k)
	d1 := vals[int(c)] * (k - f)
	return d0 + d1
}

func MaxSlice(xs []float64) float64 {
	m := xs[0]
	for _, v := range xs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
