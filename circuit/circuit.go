package circuit

import (
	"fmt"
	"math"
)

// Host-knob constants. The control surface exposes resistance and
// capacitance in abstract units; the mapping to ohms/farads is
// host-defined.
const (
	DefaultResistance  = 10000.0
	DefaultCapacitance = 10000.0
	DefaultSampleRate  = 44100.0

	// ControlMax is the upper bound of the host control range [0, 20000].
	ControlMax = 20000.0

	// ControlFloor replaces zero or negative control values before they
	// reach an engine. A value this small never enters a division or
	// matrix inversion unguarded; engines additionally reject any
	// non-positive value outright.
	ControlFloor = 1e-9
)

// Engine is the per-channel contract shared by the mna, dk, and wdf
// simulation engines.
//
// Prepare and SetParameters belong to the control path; ProcessSample
// and Reset belong to the sample path. A single engine instance serves
// exactly one channel; multi-channel hosts instantiate one engine per
// channel.
type Engine interface {
	// Prepare updates the sample rate. Idempotent if the rate is
	// unchanged; coefficients are rebuilt only on an actual change.
	Prepare(sampleRate float64) error

	// SetParameters updates resistance and capacitance. Each field
	// independently triggers a coefficient rebuild only if its value
	// differs from the stored one.
	SetParameters(resistance, capacitance float64) error

	// ProcessSample advances the simulation by one input sample and
	// returns the capacitor node voltage. It never allocates, blocks,
	// or panics; non-finite input is treated as 0.
	ProcessSample(in float64) float64

	// Reset zeroes all internal state and clears any latched fault.
	Reset()
}

// Method selects one of the three simulation engines. The integer
// values match the host-facing method switch.
type Method int

const (
	MethodMNA Method = 1 + iota
	MethodDK
	MethodWDF
)

func (m Method) String() string {
	switch m {
	case MethodMNA:
		return "mna"
	case MethodDK:
		return "dk"
	case MethodWDF:
		return "wdf"
	default:
		return "unknown"
	}
}

// ParseMethod converts a method name into a Method.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "mna":
		return MethodMNA, nil
	case "dk":
		return MethodDK, nil
	case "wdf":
		return MethodWDF, nil
	default:
		return 0, fmt.Errorf("circuit: unknown method: %q", name)
	}
}

// Parameters holds the user-settable circuit values.
type Parameters struct {
	Resistance  float64
	Capacitance float64
}

// DefaultParameters returns the host default knob values.
func DefaultParameters() Parameters {
	return Parameters{
		Resistance:  DefaultResistance,
		Capacitance: DefaultCapacitance,
	}
}

// Validate reports the first invalid field, if any.
func (p Parameters) Validate() error {
	if err := CheckResistance(p.Resistance); err != nil {
		return err
	}

	return CheckCapacitance(p.Capacitance)
}

// CheckResistance rejects non-finite or non-positive resistance.
func CheckResistance(resistance float64) error {
	return checkPositive(resistance, "resistance")
}

// CheckCapacitance rejects non-finite or non-positive capacitance.
func CheckCapacitance(capacitance float64) error {
	return checkPositive(capacitance, "capacitance")
}

// CheckSampleRate rejects non-finite or non-positive sample rates.
func CheckSampleRate(sampleRate float64) error {
	return checkPositive(sampleRate, "sample rate")
}

func checkPositive(value float64, name string) error {
	if !IsFinite(value) {
		return fmt.Errorf("circuit: %s must be finite: %v", name, value)
	}

	if value <= 0 {
		return fmt.Errorf("circuit: %s must be > 0: %g", name, value)
	}

	return nil
}

// ClampControl maps a raw host control value into the valid engine
// range: non-finite values become the floor, everything else is
// limited to [ControlFloor, ControlMax].
func ClampControl(value float64) float64 {
	if !IsFinite(value) || value < ControlFloor {
		return ControlFloor
	}

	if value > ControlMax {
		return ControlMax
	}

	return value
}

// IsFinite reports whether value is neither NaN nor infinite.
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// NearlyEqual reports whether a and b agree within eps, absolutely for
// small magnitudes and relatively otherwise.
func NearlyEqual(a, b, eps float64) bool {
	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}
