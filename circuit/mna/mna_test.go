package mna

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-circuit/circuit"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(-44100); err == nil {
		t.Fatal("expected error for invalid sample rate")
	}

	if _, err := New(44100, WithResistance(math.Inf(1))); err == nil {
		t.Fatal("expected error for infinite resistance")
	}

	if _, err := New(44100, WithCapacitance(0)); err == nil {
		t.Fatal("expected error for zero capacitance")
	}
}

// Solving the full nodal system must reproduce the direct-form filter
// described by the bilinear coefficients.
func TestMatchesTransferFunction(t *testing.T) {
	const (
		sampleRate  = 48000.0
		resistance  = 4700.0
		capacitance = 2.2e-6
	)

	e, err := New(sampleRate,
		WithResistance(resistance), WithCapacitance(capacitance))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	b0, b1, a1 := circuit.DiscreteCoefficients(resistance, capacitance, sampleRate)

	var xPrev, yPrev float64

	for i := range 256 {
		in := math.Sin(2*math.Pi*float64(i)/19) + 0.4*math.Sin(2*math.Pi*float64(i)/7)

		got := e.ProcessSample(in)
		want := b0*in + b1*xPrev - a1*yPrev

		if !circuit.NearlyEqual(got, want, 1e-12) {
			t.Fatalf("sample %d: got %g, want %g", i, got, want)
		}

		xPrev, yPrev = in, want
	}
}

// The MNA solution exposes the input node voltage and the source
// branch current alongside the output.
func TestSolvedUnknowns(t *testing.T) {
	const (
		sampleRate  = 44100.0
		resistance  = 10000.0
		capacitance = 1e-6
	)

	e, err := New(sampleRate,
		WithResistance(resistance), WithCapacitance(capacitance))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out := e.ProcessSample(1)
	s := e.State()

	// The input node is pinned to the source voltage.
	if math.Abs(s.X[rowIn]-1) > 1e-12 {
		t.Errorf("input node voltage = %v, want 1", s.X[rowIn])
	}

	if s.X[rowCap] != out {
		t.Errorf("state capacitor voltage %v != output %v", s.X[rowCap], out)
	}

	// Source current equals the resistor current, vR/R, flowing out of
	// the source.
	wantCurrent := (1 - out) / resistance
	if math.Abs(math.Abs(s.X[rowSource])-wantCurrent) > 1e-12 {
		t.Errorf("source current = %v, want magnitude %v", s.X[rowSource], wantCurrent)
	}
}

func TestRebuildOnlyOnChange(t *testing.T) {
	e, err := New(44100, WithResistance(10000), WithCapacitance(1e-6))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if e.rebuilds != 1 {
		t.Fatalf("rebuilds after New = %d, want 1", e.rebuilds)
	}

	if err := e.SetParameters(10000, 1e-6); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}

	if err := e.Prepare(44100); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if e.rebuilds != 1 {
		t.Fatalf("rebuilds after idempotent updates = %d, want 1", e.rebuilds)
	}

	if err := e.SetResistance(4700); err != nil {
		t.Fatalf("SetResistance() error = %v", err)
	}

	if err := e.Prepare(96000); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if e.rebuilds != 3 {
		t.Fatalf("rebuilds after two changes = %d, want 3", e.rebuilds)
	}
}

func TestStateRoundTrip(t *testing.T) {
	e, err := New(44100)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := range 96 {
		_ = e.ProcessSample(math.Sin(2 * math.Pi * float64(i) / 23))
	}

	clone, err := New(44100)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := clone.SetState(e.State()); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	for i := range 128 {
		x := math.Sin(2 * math.Pi * float64(i) / 41)

		if y1, y2 := e.ProcessSample(x), clone.ProcessSample(x); y1 != y2 {
			t.Fatalf("state mismatch at %d: %g vs %g", i, y1, y2)
		}
	}
}

func TestSetStateRejectsNonFinite(t *testing.T) {
	e, err := New(44100)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s := State{}
	s.X[1] = math.NaN()

	if err := e.SetState(s); err == nil {
		t.Fatal("expected error for NaN state")
	}

	s = State{}
	s.BPrev[2] = math.Inf(-1)

	if err := e.SetState(s); err == nil {
		t.Fatal("expected error for Inf forcing history")
	}
}

func TestFaultLatch(t *testing.T) {
	e, err := New(44100)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s := State{X: [3]float64{1e308, 1e308, 1e308}}
	if err := e.SetState(s); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	if out := e.ProcessSample(0); out != 0 {
		t.Fatalf("faulting sample returned %v, want 0", out)
	}

	if !e.Faulted() {
		t.Fatal("Faulted() = false after overflow")
	}

	e.Reset()

	if e.Faulted() {
		t.Fatal("Faulted() = true after Reset")
	}

	if got := e.State(); got != (State{}) {
		t.Fatalf("state after Reset = %+v", got)
	}
}

func TestProcessToMatchesSample(t *testing.T) {
	e1, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	e2, err := New(48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := make([]float64, 128)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * float64(i) / 17)
	}

	dst := make([]float64, len(in))
	e2.ProcessTo(dst, in)

	for i, x := range in {
		if want := e1.ProcessSample(x); dst[i] != want {
			t.Fatalf("sample %d mismatch: got=%g want=%g", i, dst[i], want)
		}
	}
}
