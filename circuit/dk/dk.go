package dk

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-circuit/circuit"
)

// coeffs is an immutable coefficient set published to the sample path.
type coeffs struct {
	resistance float64
	impedance  float64 // Z = 1/(2*fs*C)
}

// Engine is a single-channel DK-method RC lowpass simulator.
//
// Prepare and the setters belong to a single control goroutine;
// ProcessSample belongs to the sample goroutine. Coefficient updates
// are picked up atomically at the next sample boundary.
type Engine struct {
	sampleRate  float64
	resistance  float64
	capacitance float64
	rebuilds    uint64 // impedance recomputations, observed by tests

	active atomic.Pointer[coeffs]

	state   float64 // delayed companion state X, owned by the sample path
	faulted atomic.Bool
}

var _ circuit.Engine = (*Engine)(nil)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	resistance  float64
	capacitance float64
}

func defaultConfig() config {
	return config{
		resistance:  circuit.DefaultResistance,
		capacitance: circuit.DefaultCapacitance,
	}
}

// WithResistance sets the initial resistance. Must be finite and > 0.
func WithResistance(resistance float64) Option {
	return func(cfg *config) error {
		if err := circuit.CheckResistance(resistance); err != nil {
			return fmt.Errorf("dk: %w", err)
		}

		cfg.resistance = resistance

		return nil
	}
}

// WithCapacitance sets the initial capacitance. Must be finite and > 0.
func WithCapacitance(capacitance float64) Option {
	return func(cfg *config) error {
		if err := circuit.CheckCapacitance(capacitance); err != nil {
			return fmt.Errorf("dk: %w", err)
		}

		cfg.capacitance = capacitance

		return nil
	}
}

// New constructs a DK engine at the given sample rate.
func New(sampleRate float64, opts ...Option) (*Engine, error) {
	if err := circuit.CheckSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("dk: %w", err)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		sampleRate:  sampleRate,
		resistance:  cfg.resistance,
		capacitance: cfg.capacitance,
	}
	e.rebuild()

	return e, nil
}

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Resistance returns the resistance knob value.
func (e *Engine) Resistance() float64 { return e.resistance }

// Capacitance returns the capacitance knob value.
func (e *Engine) Capacitance() float64 { return e.capacitance }

// Impedance returns the cached companion port impedance Z.
func (e *Engine) Impedance() float64 { return e.active.Load().impedance }

// Prepare updates the sample rate. It is a no-op if the rate is
// unchanged; otherwise the impedance is recomputed.
func (e *Engine) Prepare(sampleRate float64) error {
	if err := circuit.CheckSampleRate(sampleRate); err != nil {
		return fmt.Errorf("dk: %w", err)
	}

	if sampleRate == e.sampleRate {
		return nil
	}

	e.sampleRate = sampleRate
	e.rebuild()

	return nil
}

// SetParameters updates resistance and capacitance. Only a capacitance
// change recomputes the impedance; a resistance-only change republishes
// the coefficient set with the cached Z untouched.
func (e *Engine) SetParameters(resistance, capacitance float64) error {
	if err := circuit.CheckResistance(resistance); err != nil {
		return fmt.Errorf("dk: %w", err)
	}

	if err := circuit.CheckCapacitance(capacitance); err != nil {
		return fmt.Errorf("dk: %w", err)
	}

	rChanged := resistance != e.resistance
	cChanged := capacitance != e.capacitance

	if !rChanged && !cChanged {
		return nil
	}

	e.resistance = resistance
	e.capacitance = capacitance

	if cChanged {
		e.rebuild()
		return nil
	}

	e.active.Store(&coeffs{
		resistance: e.resistance,
		impedance:  e.active.Load().impedance,
	})

	return nil
}

// SetResistance updates the resistance only.
func (e *Engine) SetResistance(resistance float64) error {
	return e.SetParameters(resistance, e.capacitance)
}

// SetCapacitance updates the capacitance only.
func (e *Engine) SetCapacitance(capacitance float64) error {
	return e.SetParameters(e.resistance, capacitance)
}

// ProcessSample advances the recurrence by one sample and returns the
// capacitor voltage. State is preserved across parameter changes.
func (e *Engine) ProcessSample(in float64) float64 {
	if !circuit.IsFinite(in) {
		in = 0
	}

	c := e.active.Load()

	// R/(R+Z) and friends are recomputed inline: a change of R alone
	// must not invalidate the cached Z.
	k := c.impedance / (c.resistance + c.impedance)
	out := (in + c.resistance*e.state) * k
	x := (2/c.impedance)*out - e.state

	if !circuit.IsFinite(out) || !circuit.IsFinite(x) {
		e.state = 0
		e.faulted.Store(true)

		return 0
	}

	e.state = x

	return out
}

// ProcessInPlace processes a mono buffer in place.
func (e *Engine) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = e.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (e *Engine) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = e.ProcessSample(x)
	}
}

// Reset zeroes the delayed state and clears any latched fault.
func (e *Engine) Reset() {
	e.state = 0
	e.faulted.Store(false)
}

// Faulted reports whether a non-finite value was scrubbed from the
// engine state since the last Reset.
func (e *Engine) Faulted() bool { return e.faulted.Load() }

// State returns the delayed companion state X.
func (e *Engine) State() float64 { return e.state }

// SetState restores an externally saved state.
func (e *Engine) SetState(x float64) error {
	if !circuit.IsFinite(x) {
		return fmt.Errorf("dk: state must be finite: %v", x)
	}

	e.state = x

	return nil
}

func (e *Engine) rebuild() {
	e.rebuilds++
	e.active.Store(&coeffs{
		resistance: e.resistance,
		impedance:  circuit.WaveImpedance(e.capacitance, e.sampleRate),
	})
}

// Stereo runs one independent DK engine per channel.
type Stereo struct {
	left  *Engine
	right *Engine
}

// NewStereo constructs a stereo helper with independent channel state.
func NewStereo(sampleRate float64, opts ...Option) (*Stereo, error) {
	left, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	right, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	return &Stereo{left: left, right: right}, nil
}

// Left returns the left-channel engine.
func (s *Stereo) Left() *Engine { return s.left }

// Right returns the right-channel engine.
func (s *Stereo) Right() *Engine { return s.right }

// Reset clears both channel states.
func (s *Stereo) Reset() {
	s.left.Reset()
	s.right.Reset()
}

// ProcessSample processes one stereo sample frame.
func (s *Stereo) ProcessSample(leftIn, rightIn float64) (leftOut, rightOut float64) {
	return s.left.ProcessSample(leftIn), s.right.ProcessSample(rightIn)
}

// ProcessInPlace processes stereo planar buffers in place.
func (s *Stereo) ProcessInPlace(left, right []float64) {
	n := len(left)
	if n == 0 {
		return
	}

	_ = right[n-1]

	for i := range n {
		left[i], right[i] = s.ProcessSample(left[i], right[i])
	}
}
