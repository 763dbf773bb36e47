// Package indicator holds batch rolling computations over ascending bar
// sequences. Every function returns a slice aligned 1:1 with its input;
// indices without enough history carry the undefined marker instead of an
// error. Nothing here keeps state between calls.
package indicator

import "math"

// Undefined marks an index that lacks sufficient history. NaN is convenient:
// any threshold comparison against it is false, so a rule consuming an
// undefined value fails on its own.
func Undefined() float64 { return math.NaN() }

// Defined reports whether v carries a real value.
func Defined(v float64) bool { return !math.IsNaN(v) }

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
