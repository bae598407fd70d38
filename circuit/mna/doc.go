// Package mna simulates the series RC lowpass with trapezoidal
// Modified Nodal Analysis.
//
// The circuit has two node voltages and one source branch current,
// collected in the state vector x = [vIn, vCap, iSrc]. The conductance
// matrix G stamps the resistor and the independent-voltage-source
// constraint row, the companion matrix H = 2*C/T stamps the
// trapezoidal capacitor model, and each sample advances
//
//	x = (G+H)^-1 * ((H-G)*x + b + bPrev)
//
// where b carries the injected source voltage. (G+H) is inverted once
// per parameter change by the closed-form 3x3 adjugate formula; the
// per-sample work is two matrix-vector products.
package mna
