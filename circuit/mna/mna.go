package mna

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-circuit/circuit"
	"github.com/cwbudde/algo-circuit/internal/mat3"
)

// State vector layout. The forcing vector uses the same indices: the
// source voltage is injected at rowSource and the output is read at
// rowCap.
const (
	rowIn     = 0 // input node voltage
	rowCap    = 1 // capacitor node voltage (the output port)
	rowSource = 2 // source branch current / constraint row
)

// coeffs is an immutable coefficient set published to the sample path.
type coeffs struct {
	aInv    mat3.Mat // (G+H)^-1
	hMinusG mat3.Mat
}

// Engine is a single-channel MNA RC lowpass simulator.
//
// Prepare and the setters belong to a single control goroutine;
// ProcessSample belongs to the sample goroutine. Coefficient updates
// are picked up atomically at the next sample boundary.
type Engine struct {
	sampleRate  float64
	resistance  float64
	capacitance float64
	rebuilds    uint64 // matrix recomputations, observed by tests

	active atomic.Pointer[coeffs]

	// Sample-path state. Values are overwritten in place each call,
	// never reallocated.
	x     mat3.Vec
	b     mat3.Vec
	bPrev mat3.Vec

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
			return fmt.Errorf("mna: %w", err)
		}

		cfg.resistance = resistance

		return nil
	}
}

// WithCapacitance sets the initial capacitance. Must be finite and > 0.
func WithCapacitance(capacitance float64) Option {
	return func(cfg *config) error {
		if err := circuit.CheckCapacitance(capacitance); err != nil {
			return fmt.Errorf("mna: %w", err)
		}

		cfg.capacitance = capacitance

		return nil
	}
}

// New constructs an MNA engine at the given sample rate.
func New(sampleRate float64, opts ...Option) (*Engine, error) {
	if err := circuit.CheckSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("mna: %w", err)
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

	if err := e.rebuild(); err != nil {
		return nil, err
	}

	return e, nil
}

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Resistance returns the resistance knob value.
func (e *Engine) Resistance() float64 { return e.resistance }

// Capacitance returns the capacitance knob value.
func (e *Engine) Capacitance() float64 { return e.capacitance }

// Prepare updates the sample rate. It is a no-op if the rate is
// unchanged; otherwise the system matrices are recomputed.
func (e *Engine) Prepare(sampleRate float64) error {
	if err := circuit.CheckSampleRate(sampleRate); err != nil {
		return fmt.Errorf("mna: %w", err)
	}

	if sampleRate == e.sampleRate {
		return nil
	}

	e.sampleRate = sampleRate

	return e.rebuild()
}

// SetParameters updates resistance and capacitance. The matrices are
// recomputed only when at least one value actually changed; state is
// preserved across the change.
func (e *Engine) SetParameters(resistance, capacitance float64) error {
	if err := circuit.CheckResistance(resistance); err != nil {
		return fmt.Errorf("mna: %w", err)
	}

	if err := circuit.CheckCapacitance(capacitance); err != nil {
		return fmt.Errorf("mna: %w", err)
	}

	if resistance == e.resistance && capacitance == e.capacitance {
		return nil
	}

	e.resistance = resistance
	e.capacitance = capacitance

	return e.rebuild()
}

// SetResistance updates the resistance only.
func (e *Engine) SetResistance(resistance float64) error {
	return e.SetParameters(resistance, e.capacitance)
}

// SetCapacitance updates the capacitance only.
func (e *Engine) SetCapacitance(capacitance float64) error {
	return e.SetParameters(e.resistance, capacitance)
}

// ProcessSample advances the nodal equations by one sample and returns
// the capacitor node voltage.
func (e *Engine) ProcessSample(in float64) float64 {
	if !circuit.IsFinite(in) {
		in = 0
	}

	c := e.active.Load()

	e.b[rowSource] = in
	rhs := c.hMinusG.MulVec(e.x).Add(e.b).Add(e.bPrev)
	e.x = c.aInv.MulVec(rhs)
	e.bPrev = e.b

	out := e.x[rowCap]
	if !circuit.IsFinite(out) {
		e.x = mat3.Vec{}
		e.b = mat3.Vec{}
		e.bPrev = mat3.Vec{}
		e.faulted.Store(true)

		return 0
	}

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

// Reset zeroes the state and forcing history and clears any latched fault.
func (e *Engine) Reset() {
	e.x = mat3.Vec{}
	e.b = mat3.Vec{}
	e.bPrev = mat3.Vec{}
	e.faulted.Store(false)
}

// Faulted reports whether a non-finite value was scrubbed from the
// engine state since the last Reset.
func (e *Engine) Faulted() bool { return e.faulted.Load() }

// State contains the engine's runtime state for save/restore workflows.
type State struct {
	X     [3]float64 // unknowns [vIn, vCap, iSrc]
	BPrev [3]float64 // previous forcing vector
}

// State returns a copy of the current runtime state.
func (e *Engine) State() State {
	return State{X: e.x, BPrev: e.bPrev}
}

// SetState restores an externally saved runtime state.
func (e *Engine) SetState(s State) error {
	for _, v := range s.X {
		if !circuit.IsFinite(v) {
			return fmt.Errorf("mna: state contains NaN or Inf")
		}
	}

	for _, v := range s.BPrev {
		if !circuit.IsFinite(v) {
			return fmt.Errorf("mna: state contains NaN or Inf")
		}
	}

	e.x = s.X
	e.bPrev = s.BPrev

	return nil
}

// rebuild restamps G and H and recomputes the cached inverse. The
// validated parameter range keeps G+H regular; the singularity check
// is the last line of defense before the sample path.
func (e *Engine) rebuild() error {
	g := 1 / e.resistance
	h := 2 * e.capacitance * e.sampleRate // 2*C/T

	gm := mat3.Mat{
		{g, -g, 1},
		{-g, g, 0},
		{1, 0, 0},
	}

	var hm mat3.Mat
	hm[rowCap][rowCap] = h

	aInv, ok := gm.Add(hm).Inverse()
	if !ok {
		return fmt.Errorf("mna: singular system matrix for R=%g C=%g fs=%g",
			e.resistance, e.capacitance, e.sampleRate)
	}

	e.rebuilds++
	e.active.Store(&coeffs{
		aInv:    aInv,
		hMinusG: hm.Sub(gm),
	})

	return nil
}
