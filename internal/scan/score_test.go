package scan

import (
	"testing"

	"breakout_bot/internal/indicator"
)

func TestScoreFullHouse(t *testing.T) {
	got := Score(ScoreInput{
		Breakout:     0.02, // caps the breakout component
		RelVol20:     2.0,  // caps the volume component
		RSI:          85,
		MACDHist:     0.5,
		PctB:         0.5,
		ATRPct:       0,
		MTFConfirmed: true,
	})
	if got != 100 {
		t.Fatalf("score = %v, want 100", got)
	}
}

func TestScoreNeverExceedsHundred(t *testing.T) {
	got := Score(ScoreInput{
		Breakout:     5,
		RelVol20:     50,
		RSI:          500,
		MACDHist:     100,
		PctB:         0.5,
		ATRPct:       -10,
		MTFConfirmed: true,
	})
	if got > 100 {
		t.Fatalf("score = %v, want <= 100", got)
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	nan := indicator.Undefined()
	got := Score(ScoreInput{
		Breakout: 0,
		RelVol20: nan,
		RSI:      nan,
		MACDHist: nan,
		PctB:     nan,
		ATRPct:   nan,
	})
	if got != 0 {
		t.Fatalf("score = %v, want 0", got)
	}
}

func TestScoreComponents(t *testing.T) {
	nan := indicator.Undefined()
	cases := []struct {
		name string
		in   ScoreInput
		want float64
	}{
		{
			name: "half breakout",
			in:   ScoreInput{Breakout: 0.01, RelVol20: nan, RSI: nan, MACDHist: nan, PctB: nan, ATRPct: nan},
			want: 20,
		},
		{
			name: "volume only",
			in:   ScoreInput{RelVol20: 1.5, RSI: nan, MACDHist: nan, PctB: nan, ATRPct: nan},
			want: 12.5,
		},
		{
			name: "mtf only",
			in:   ScoreInput{RelVol20: nan, RSI: nan, MACDHist: nan, PctB: nan, ATRPct: nan, MTFConfirmed: true},
			want: 10,
		},
		{
			name: "momentum averages only defined bits",
			in:   ScoreInput{RelVol20: nan, RSI: nan, MACDHist: 0.4, PctB: nan, ATRPct: nan},
			want: 20, // single defined bit, fully positive
		},
		{
			name: "calm tape earns the risk bonus",
			in:   ScoreInput{RelVol20: nan, RSI: nan, MACDHist: nan, PctB: nan, ATRPct: 2.5},
			want: 2.5,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.in); !almostEqual(got, tc.want, 1e-9) {
				t.Fatalf("score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreMonotonic(t *testing.T) {
	base := ScoreInput{
		Breakout: 0.001,
		RelVol20: 1.1,
		RSI:      60,
		MACDHist: 0.2,
		PctB:     0.5,
		ATRPct:   1,
	}

	prev := Score(base)
	for _, m := range []float64{0.005, 0.01, 0.02, 0.05} {
		in := base
		in.Breakout = m
		if got := Score(in); got < prev {
			t.Fatalf("score decreased with breakout magnitude %v: %v < %v", m, got, prev)
		} else {
			prev = got
		}
	}

	prev = Score(base)
	for _, rv := range []float64{1.3, 1.6, 2.0, 5.0} {
		in := base
		in.RelVol20 = rv
		if got := Score(in); got < prev {
			t.Fatalf("score decreased with relative volume %v: %v < %v", rv, got, prev)
		} else {
			prev = got
		}
	}
}

func TestScoreMTFAddsTen(t *testing.T) {
	base := ScoreInput{
		Breakout: 0.01,
		RelVol20: 1.8,
		RSI:      64,
		MACDHist: 0.2,
		PctB:     0.5,
		ATRPct:   1,
	}
	without := Score(base)
	base.MTFConfirmed = true
	with := Score(base)
	if !almostEqual(with-without, 10, 1e-9) {
		t.Fatalf("mtf delta = %v, want 10", with-without)
	}
}
