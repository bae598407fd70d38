// Package dk simulates the series RC lowpass with a closed-form
// discretized-Kirchhoff recurrence.
//
// The capacitor is replaced by its trapezoidal (bilinear) companion
// model: a resistive port of impedance Z = 1/(2*fs*C) in series with a
// history source carrying the delayed state X. Pre-solving Kirchhoff's
// voltage law for the single loop collapses the whole circuit into a
// two-term recurrence:
//
//	vOut = (vIn + R*X) * Z/(R+Z)
//	X    = (2/Z)*vOut - X
//
// Z depends only on the sample rate and the capacitance, so changing
// the resistance never triggers a coefficient rebuild; the R-dependent
// gain is a single division already on the hot path.
package dk
