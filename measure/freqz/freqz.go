package freqz

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by frequency-response measurement.
var (
	ErrInvalidFFTSize    = errors.New("freqz: fft size must be >= 16")
	ErrInvalidSampleRate = errors.New("freqz: sample rate must be positive")
	ErrNoCutoff          = errors.New("freqz: response never falls 3 dB below its DC value")
)

// Processor is the minimal per-sample contract the measurement needs.
type Processor interface {
	ProcessSample(in float64) float64
}

// Response is a measured magnitude response over fftSize/2+1 uniformly
// spaced bins from DC to Nyquist.
type Response struct {
	sampleRate float64
	fftSize    int
	magnitude  []float64
}

// ImpulseResponse drives p with a unit impulse and records n output
// samples. The processor's state afterwards is whatever the impulse
// left behind; callers wanting a pristine processor should reset it.
func ImpulseResponse(p Processor, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	out[0] = p.ProcessSample(1)

	for i := 1; i < n; i++ {
		out[i] = p.ProcessSample(0)
	}

	return out
}

// Measure captures fftSize impulse-response samples of p and returns
// the magnitude response. fftSize is rounded up to a power of two.
func Measure(p Processor, fftSize int, sampleRate float64) (*Response, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if fftSize < 16 {
		return nil, ErrInvalidFFTSize
	}

	fftSize = nextPowerOf2(fftSize)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("freqz: failed to create FFT plan: %w", err)
	}

	ir := ImpulseResponse(p, fftSize)

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	spectrum := make([]complex128, fftSize)
	if err := plan.Forward(spectrum, in); err != nil {
		return nil, fmt.Errorf("freqz: forward FFT failed: %w", err)
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)

	for i := range half {
		re[i] = real(spectrum[i])
		im[i] = imag(spectrum[i])
	}

	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	return &Response{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		magnitude:  mag,
	}, nil
}

// SampleRate returns the sample rate the response was measured at.
func (r *Response) SampleRate() float64 { return r.sampleRate }

// FFTSize returns the (power-of-two) FFT size actually used.
func (r *Response) FFTSize() int { return r.fftSize }

// BinCount returns the number of magnitude bins (DC through Nyquist).
func (r *Response) BinCount() int { return len(r.magnitude) }

// BinFreq returns the center frequency of bin i in Hz.
func (r *Response) BinFreq(i int) float64 {
	return float64(i) * r.sampleRate / float64(r.fftSize)
}

// Magnitude returns the linear magnitude of bin i.
func (r *Response) Magnitude(i int) float64 { return r.magnitude[i] }

// MagnitudeAt returns the linear magnitude at freqHz, linearly
// interpolated between the bracketing bins. Frequencies outside
// [0, Nyquist] clamp to the edge bins.
func (r *Response) MagnitudeAt(freqHz float64) float64 {
	pos := freqHz * float64(r.fftSize) / r.sampleRate
	if pos <= 0 {
		return r.magnitude[0]
	}

	last := len(r.magnitude) - 1
	if pos >= float64(last) {
		return r.magnitude[last]
	}

	i := int(pos)
	frac := pos - float64(i)

	return r.magnitude[i] + frac*(r.magnitude[i+1]-r.magnitude[i])
}

// MagnitudeDBAt returns 20*log10 of the interpolated magnitude.
func (r *Response) MagnitudeDBAt(freqHz float64) float64 {
	return 20 * math.Log10(r.MagnitudeAt(freqHz))
}

// CutoffHz locates the -3 dB corner: the lowest frequency at which
// the magnitude falls to 1/sqrt(2) of the DC magnitude, linearly
// interpolated between bins.
func (r *Response) CutoffHz() (float64, error) {
	target := r.magnitude[0] / math.Sqrt2
	if target <= 0 {
		return 0, ErrNoCutoff
	}

	for i := 1; i < len(r.magnitude); i++ {
		if r.magnitude[i] > target {
			continue
		}

		f := r.BinFreq(i)
		if prev := r.magnitude[i-1]; prev != r.magnitude[i] {
			frac := (prev - target) / (prev - r.magnitude[i])
			f = r.BinFreq(i-1) + frac*(r.BinFreq(i)-r.BinFreq(i-1))
		}

		return f, nil
	}

	return 0, ErrNoCutoff
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
