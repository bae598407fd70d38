package circuit

import (
	"math"
	"testing"
)

func TestParametersValidate(t *testing.T) {
	if err := DefaultParameters().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name string
		p    Parameters
	}{
		{name: "zero resistance", p: Parameters{Resistance: 0, Capacitance: 1}},
		{name: "negative resistance", p: Parameters{Resistance: -1, Capacitance: 1}},
		{name: "nan resistance", p: Parameters{Resistance: math.NaN(), Capacitance: 1}},
		{name: "inf resistance", p: Parameters{Resistance: math.Inf(1), Capacitance: 1}},
		{name: "zero capacitance", p: Parameters{Resistance: 1, Capacitance: 0}},
		{name: "negative capacitance", p: Parameters{Resistance: 1, Capacitance: -2}},
		{name: "nan capacitance", p: Parameters{Resistance: 1, Capacitance: math.NaN()}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.p.Validate(); err == nil {
				t.Fatalf("Validate(%+v) = nil, want error", tc.p)
			}
		})
	}
}

func TestCheckSampleRate(t *testing.T) {
	if err := CheckSampleRate(44100); err != nil {
		t.Fatalf("CheckSampleRate(44100) error = %v", err)
	}

	for _, v := range []float64{0, -48000, math.NaN(), math.Inf(-1)} {
		if err := CheckSampleRate(v); err == nil {
			t.Fatalf("CheckSampleRate(%v) = nil, want error", v)
		}
	}
}

func TestClampControl(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 5000, want: 5000},
		{in: ControlMax, want: ControlMax},
		{in: ControlMax + 1, want: ControlMax},
		{in: 0, want: ControlFloor},
		{in: -10, want: ControlFloor},
		{in: ControlFloor / 2, want: ControlFloor},
		{in: math.NaN(), want: ControlFloor},
		{in: math.Inf(1), want: ControlFloor},
		{in: math.Inf(-1), want: ControlFloor},
	}

	for _, tc := range tests {
		if got := ClampControl(tc.in); got != tc.want {
			t.Errorf("ClampControl(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMethodRoundTrip(t *testing.T) {
	for _, m := range []Method{MethodMNA, MethodDK, MethodWDF} {
		got, err := ParseMethod(m.String())
		if err != nil {
			t.Fatalf("ParseMethod(%q) error = %v", m.String(), err)
		}

		if got != m {
			t.Fatalf("ParseMethod(%q) = %v, want %v", m.String(), got, m)
		}
	}

	if Method(0).String() != "unknown" {
		t.Errorf("Method(0).String() = %q", Method(0).String())
	}

	if _, err := ParseMethod("spice"); err == nil {
		t.Fatal("ParseMethod(spice) = nil, want error")
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(0, 1e-12, 1e-9) {
		t.Error("small absolute difference should pass")
	}

	if !NearlyEqual(1e6, 1e6*(1+1e-12), 1e-9) {
		t.Error("small relative difference should pass")
	}

	if NearlyEqual(1, 2, 1e-9) {
		t.Error("large difference should fail")
	}

	if !NearlyEqual(0, 0, 0) {
		t.Error("exact zeros should pass")
	}
}

func TestIsFinite(t *testing.T) {
	for _, v := range []float64{0, 1, -1e308, math.SmallestNonzeroFloat64} {
		if !IsFinite(v) {
			t.Errorf("IsFinite(%v) = false", v)
		}
	}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if IsFinite(v) {
			t.Errorf("IsFinite(%v) = true", v)
		}
	}
}
