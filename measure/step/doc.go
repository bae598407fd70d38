// Package step captures and analyzes unit-step responses of
// per-sample processors.
//
// For a first-order RC lowpass the interesting figures are the final
// value (unity for any lowpass with DC gain 1), the 63.2% crossing
// that locates the time constant tau = R*C, and the overshoot (zero
// for a single real pole). The analyzer works on any recorded
// response; Response drives a processor with a unit step to produce
// one.
package step
