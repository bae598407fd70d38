package circuit

import "math"

// TimeConstant returns the RC time constant tau = R*C.
func TimeConstant(resistance, capacitance float64) float64 {
	return resistance * capacitance
}

// CutoffHz returns the -3 dB corner frequency 1/(2*pi*R*C).
func CutoffHz(resistance, capacitance float64) float64 {
	return 1 / (2 * math.Pi * resistance * capacitance)
}

// StepValue returns the continuous-time unit step response
// 1 - exp(-t/tau) at time t seconds.
func StepValue(resistance, capacitance, t float64) float64 {
	if t <= 0 {
		return 0
	}

	return 1 - math.Exp(-t/TimeConstant(resistance, capacitance))
}

// WaveImpedance returns the bilinear companion port resistance of the
// capacitor, Z = 1/(2*fs*C). All three engines derive their
// discrete-time behavior from this single quantity.
func WaveImpedance(capacitance, sampleRate float64) float64 {
	return 1 / (2 * sampleRate * capacitance)
}

// MagnitudeSquared returns |H(f)|^2 of the continuous-time circuit,
// 1/(1 + (2*pi*f*R*C)^2).
func MagnitudeSquared(resistance, capacitance, freqHz float64) float64 {
	w := 2 * math.Pi * freqHz * TimeConstant(resistance, capacitance)
	return 1 / (1 + w*w)
}

// MagnitudeDB returns 10*log10(|H(f)|^2) of the continuous-time circuit.
func MagnitudeDB(resistance, capacitance, freqHz float64) float64 {
	return 10 * math.Log10(MagnitudeSquared(resistance, capacitance, freqHz))
}

// DiscreteCoefficients returns the normalized first-order transfer
// function realized by all three engines,
//
//	H(z) = (b0 + b1*z^-1) / (1 + a1*z^-1)
//
// obtained by the bilinear transform of the circuit: with
// Z = 1/(2*fs*C),
//
//	b0 = b1 = Z/(R+Z),  a1 = (Z-R)/(R+Z).
func DiscreteCoefficients(resistance, capacitance, sampleRate float64) (b0, b1, a1 float64) {
	z := WaveImpedance(capacitance, sampleRate)
	den := resistance + z

	b0 = z / den
	b1 = b0
	a1 = (z - resistance) / den

	return b0, b1, a1
}

// DiscreteMagnitudeSquared returns |H(e^jw)|^2 of the discrete-time
// filter the engines realize, evaluated at freqHz for the given sample
// rate. Near DC it approaches 1; at Nyquist it reaches exactly 0
// (the bilinear transform maps the analog zero at infinity onto z=-1).
func DiscreteMagnitudeSquared(resistance, capacitance, freqHz, sampleRate float64) float64 {
	b0, b1, a1 := DiscreteCoefficients(resistance, capacitance, sampleRate)

	cw := math.Cos(2 * math.Pi * freqHz / sampleRate)
	sw := math.Sin(2 * math.Pi * freqHz / sampleRate)

	numRe := b0 + b1*cw
	numIm := -b1 * sw
	denRe := 1 + a1*cw
	denIm := -a1 * sw

	return (numRe*numRe + numIm*numIm) / (denRe*denRe + denIm*denIm)
}

// DiscreteMagnitudeDB returns 10*log10(|H(e^jw)|^2).
func DiscreteMagnitudeDB(resistance, capacitance, freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(DiscreteMagnitudeSquared(resistance, capacitance, freqHz, sampleRate))
}
