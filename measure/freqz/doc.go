// Package freqz measures the frequency response of a per-sample
// processor by capturing its impulse response and transforming it
// with an FFT.
//
// For the RC engines the measured magnitude can be compared directly
// against circuit.DiscreteMagnitudeDB (the exact bilinear response
// they realize) or circuit.MagnitudeDB (the continuous-time target);
// CutoffHz locates the measured -3 dB corner.
package freqz
