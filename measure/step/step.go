package step

import (
	"errors"
	"math"
)

// Errors returned by step-response analysis.
var (
	ErrEmptyResponse     = errors.New("step: response is empty")
	ErrInvalidSampleRate = errors.New("step: sample rate must be positive")
	ErrNoCrossing        = errors.New("step: response never crosses the time-constant level")
)

// timeConstantLevel is 1 - 1/e, the fraction of the final value a
// first-order system reaches after exactly one time constant.
const timeConstantLevel = 0.6321205588285577

// Processor is the minimal per-sample contract the capture helper needs.
type Processor interface {
	ProcessSample(in float64) float64
}

// Response drives p with a unit step (1.0 from sample 0 on) and
// records n output samples.
func Response(p Processor, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = p.ProcessSample(1)
	}

	return out
}

// Metrics holds step-response analysis results.
type Metrics struct {
	FinalValue        float64 // mean of the response tail
	TimeConstant      float64 // seconds to the 63.2% crossing, interpolated
	TimeConstantIndex int     // first sample at or above the 63.2% level
	Overshoot         float64 // peak/final - 1, zero for monotone responses
}

// Analyzer computes step metrics from recorded response data.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates a step analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze computes all step metrics. The response must be long enough
// to have settled; the final value is estimated from the last 5% of
// the samples.
func (a *Analyzer) Analyze(response []float64) (Metrics, error) {
	if len(response) == 0 {
		return Metrics{}, ErrEmptyResponse
	}

	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	final := a.finalValue(response)

	m := Metrics{
		FinalValue: final,
		Overshoot:  a.overshoot(response, final),
	}

	idx, t, err := a.timeConstant(response, final)
	if err != nil {
		return Metrics{}, err
	}

	m.TimeConstantIndex = idx
	m.TimeConstant = t

	return m, nil
}

// TimeConstant returns the interpolated time in seconds at which the
// response first crosses 63.2% of its final value.
func (a *Analyzer) TimeConstant(response []float64) (float64, error) {
	if len(response) == 0 {
		return 0, ErrEmptyResponse
	}

	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	_, t, err := a.timeConstant(response, a.finalValue(response))

	return t, err
}

// finalValue estimates the settled value from the response tail.
func (a *Analyzer) finalValue(response []float64) float64 {
	tail := len(response) / 20
	if tail < 1 {
		tail = 1
	}

	var sum float64
	for _, v := range response[len(response)-tail:] {
		sum += v
	}

	return sum / float64(tail)
}

// timeConstant locates the 63.2% crossing with linear interpolation
// between the bracketing samples.
func (a *Analyzer) timeConstant(response []float64, final float64) (int, float64, error) {
	level := timeConstantLevel * final
	if level == 0 {
		return 0, 0, ErrNoCrossing
	}

	for i, v := range response {
		if v < level {
			continue
		}

		t := float64(i)
		if i > 0 && v != response[i-1] {
			// Fractional position of the crossing inside [i-1, i].
			t = float64(i-1) + (level-response[i-1])/(v-response[i-1])
		}

		return i, t / a.SampleRate, nil
	}

	return 0, 0, ErrNoCrossing
}

// overshoot returns peak/final - 1, clamped at zero.
func (a *Analyzer) overshoot(response []float64, final float64) float64 {
	if final == 0 {
		return 0
	}

	peak := 0.0
	for _, v := range response {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}

	over := peak/math.Abs(final) - 1
	if over < 0 {
		return 0
	}

	return over
}
