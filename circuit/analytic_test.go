package circuit

import (
	"math"
	"testing"
)

func TestDiscreteCoefficientsDCGain(t *testing.T) {
	tests := []struct {
		r, c, fs float64
	}{
		{r: 10000, c: 1e-6, fs: 44100},
		{r: 4700, c: 2.2e-6, fs: 48000},
		{r: 10000, c: 10000, fs: 44100},
		{r: 1, c: 1, fs: 2},
	}

	for _, tc := range tests {
		b0, b1, a1 := DiscreteCoefficients(tc.r, tc.c, tc.fs)

		dc := (b0 + b1) / (1 + a1)
		if math.Abs(dc-1) > 1e-12 {
			t.Errorf("DC gain for R=%g C=%g fs=%g: got %v, want 1", tc.r, tc.c, tc.fs, dc)
		}

		if b0 != b1 {
			t.Errorf("b0 != b1 for R=%g C=%g fs=%g", tc.r, tc.c, tc.fs)
		}

		if a1 <= -1 || a1 >= 1 {
			t.Errorf("pole outside unit circle: a1=%v", a1)
		}
	}
}

func TestWaveImpedance(t *testing.T) {
	if got := WaveImpedance(1e-6, 44100); math.Abs(got-1/0.0882) > 1e-9 {
		t.Fatalf("WaveImpedance = %v", got)
	}
}

func TestStepValueAtTau(t *testing.T) {
	tau := TimeConstant(10000, 1e-6)

	got := StepValue(10000, 1e-6, tau)
	want := 1 - 1/math.E

	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("StepValue at tau = %v, want %v", got, want)
	}

	if StepValue(10000, 1e-6, 0) != 0 {
		t.Fatal("StepValue at t=0 should be 0")
	}
}

func TestMagnitudeAtCutoff(t *testing.T) {
	const r, c = 10000.0, 1e-6

	fc := CutoffHz(r, c)

	if got := MagnitudeDB(r, c, fc); math.Abs(got-(-3.0103)) > 0.001 {
		t.Errorf("analog magnitude at cutoff = %v dB, want -3.0103", got)
	}

	// Far below Nyquist the bilinear response tracks the analog one.
	if got := DiscreteMagnitudeDB(r, c, fc, 44100); math.Abs(got-(-3.0103)) > 0.01 {
		t.Errorf("discrete magnitude at cutoff = %v dB, want -3.0103", got)
	}
}

func TestDiscreteMagnitudeAtNyquist(t *testing.T) {
	// The bilinear transform maps the analog zero at infinity to z=-1,
	// so the response vanishes exactly at Nyquist.
	got := DiscreteMagnitudeSquared(10000, 1e-6, 22050, 44100)
	if got > 1e-24 {
		t.Fatalf("magnitude squared at Nyquist = %v, want ~0", got)
	}
}

func TestDiscreteMagnitudeMonotone(t *testing.T) {
	const r, c, fs = 4700.0, 2.2e-6, 48000.0

	prev := math.Inf(1)
	for f := 1.0; f < fs/2; f *= 2 {
		m := DiscreteMagnitudeSquared(r, c, f, fs)
		if m >= prev {
			t.Fatalf("magnitude not strictly decreasing at %g Hz: %v >= %v", f, m, prev)
		}

		prev = m
	}
}
