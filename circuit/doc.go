// Package circuit defines the shared contract for the RC lowpass
// simulation engines and the analytic reference model they are tested
// against.
//
// The simulated circuit is a single first-order series RC lowpass:
//
//	Vin ── R ──┬── Vout
//	           │
//	           C
//	           │
//	          GND
//
// Three independent discretizations of this circuit live in the
// subpackages mna (trapezoidal Modified Nodal Analysis), dk
// (closed-form discretized-Kirchhoff recurrence), and wdf (wave
// digital filter scattering tree). All three implement [Engine] and,
// for identical parameters and input, produce the same output up to
// floating-point rounding: each is an exact realization of the same
// bilinear transform of the continuous-time circuit.
//
// Engines are real-time safe: ProcessSample performs bounded,
// allocation-free, lock-free work. Parameter changes from a control
// goroutine are published as immutable coefficient sets via atomic
// pointer swap and picked up at the next sample boundary.
//
// Resistance and capacitance are abstract host-knob values (defaults
// 10000, control range [0, 20000]); the mapping to engineering units
// is host-defined. The analytic helpers in this package accept any
// positive values, so callers working in ohms and farads can use them
// directly.
package circuit
