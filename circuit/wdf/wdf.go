package wdf

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-circuit/circuit"
)

type nodeKind uint8

const (
	kindResistor nodeKind = iota
	kindCapacitor
	kindSeries
	kindSource
)

// Stable arena handles. The topology is fixed at construction:
// resistor and capacitor in series under the voltage-source root.
const (
	handleResistor = iota
	handleCapacitor
	handleSeries
	handleSource
	nodeCount
)

// node is one tagged one-port (or adaptor) in the tree arena. Only the
// fields relevant to its kind are used: z is the capacitor's delayed
// wave, alpha the adaptor's scattering weight, vs the source voltage.
type node struct {
	kind nodeKind

	a  float64 // last incident wave
	b  float64 // last reflected wave
	r0 float64 // port resistance

	z     float64 // capacitor: delayed incident wave (entire memory)
	alpha float64 // series adaptor: R0(child1)/R0
	vs    float64 // source: instantaneous voltage

	child1 int
	child2 int
}

// coeffs is an immutable coefficient set published to the sample path.
// Port resistances are listed leaves-first; applying them in that
// order mirrors the bottom-up impedance recompute protocol.
type coeffs struct {
	resistorR0  float64
	capacitorR0 float64
	seriesR0    float64
	alpha       float64
}

// Engine is a single-channel WDF RC lowpass simulator.
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

	// Sample-path state: the node arena and the coefficient set it
	// currently reflects.
	nodes   [nodeCount]node
	applied *coeffs

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
			return fmt.Errorf("wdf: %w", err)
		}

		cfg.resistance = resistance

		return nil
	}
}

// WithCapacitance sets the initial capacitance. Must be finite and > 0.
func WithCapacitance(capacitance float64) Option {
	return func(cfg *config) error {
		if err := circuit.CheckCapacitance(capacitance); err != nil {
			return fmt.Errorf("wdf: %w", err)
		}

		cfg.capacitance = capacitance

		return nil
	}
}

// New constructs a WDF engine at the given sample rate. The tree is
// built once here; only parameter values change afterwards.
func New(sampleRate float64, opts ...Option) (*Engine, error) {
	if err := circuit.CheckSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("wdf: %w", err)
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

	e.nodes[handleResistor] = node{kind: kindResistor}
	e.nodes[handleCapacitor] = node{kind: kindCapacitor}
	e.nodes[handleSeries] = node{
		kind:   kindSeries,
		child1: handleResistor,
		child2: handleCapacitor,
	}
	e.nodes[handleSource] = node{
		kind:   kindSource,
		child1: handleSeries,
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

// Prepare updates the sample rate. It is a no-op if the rate is
// unchanged; otherwise the port resistances are recomputed.
func (e *Engine) Prepare(sampleRate float64) error {
	if err := circuit.CheckSampleRate(sampleRate); err != nil {
		return fmt.Errorf("wdf: %w", err)
	}

	if sampleRate == e.sampleRate {
		return nil
	}

	e.sampleRate = sampleRate
	e.rebuild()

	return nil
}

// SetParameters updates resistance and capacitance. The port
// resistances are recomputed only when at least one value actually
// changed; the capacitor's delayed wave is preserved.
func (e *Engine) SetParameters(resistance, capacitance float64) error {
	if err := circuit.CheckResistance(resistance); err != nil {
		return fmt.Errorf("wdf: %w", err)
	}

	if err := circuit.CheckCapacitance(capacitance); err != nil {
		return fmt.Errorf("wdf: %w", err)
	}

	if resistance == e.resistance && capacitance == e.capacitance {
		return nil
	}

	e.resistance = resistance
	e.capacitance = capacitance
	e.rebuild()

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

// ProcessSample runs both scattering passes for one input sample and
// returns the capacitor port voltage.
func (e *Engine) ProcessSample(in float64) float64 {
	if !circuit.IsFinite(in) {
		in = 0
	}

	if c := e.active.Load(); c != e.applied {
		e.apply(c)
	}

	e.nodes[handleSource].vs = in

	// Up-sweep from the leaves; the root's own reflected wave is never
	// queried by the driver, the adaptor's output arrives at the root
	// as its incident wave.
	aRoot := e.reflected(handleSeries)

	// Down-sweep: the root scatters b = 2*vIn - a into the tree.
	e.incident(handleSource, aRoot)

	capNode := &e.nodes[handleCapacitor]

	out := (capNode.a + capNode.b) / 2
	if !circuit.IsFinite(out) || !circuit.IsFinite(capNode.z) {
		e.clearWaves()
		e.faulted.Store(true)

		return 0
	}

	return out
}

// reflected produces the node's reflected wave, recursing through
// adaptor children bottom-up.
func (e *Engine) reflected(h int) float64 {
	n := &e.nodes[h]

	switch n.kind {
	case kindResistor:
		// Matched port: absorbs the wave entirely.
		n.b = 0
	case kindCapacitor:
		n.b = n.z
	case kindSeries:
		n.b = e.reflected(n.child1) + e.reflected(n.child2)
	case kindSource:
		// The source dictates b from vs during the down-sweep.
		return n.a
	}

	return n.b
}

// incident accepts an incident wave, recursing through adaptor
// children top-down.
func (e *Engine) incident(h int, x float64) {
	n := &e.nodes[h]
	n.a = x

	switch n.kind {
	case kindResistor:
		// Stores a only.
	case kindCapacitor:
		// The single state transition of the whole tree: the arriving
		// incident wave becomes next sample's reflected wave.
		n.z = x
	case kindSeries:
		b1 := e.nodes[n.child1].b
		b2 := e.nodes[n.child2].b
		wsum := x - b1 - b2

		e.incident(n.child1, b1+n.alpha*wsum)
		e.incident(n.child2, b2+(1-n.alpha)*wsum)
	case kindSource:
		n.b = 2*n.vs - x
		e.incident(n.child1, n.b)
	}
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

// Reset zeroes all wave state and clears any latched fault.
func (e *Engine) Reset() {
	e.clearWaves()
	e.faulted.Store(false)
}

func (e *Engine) clearWaves() {
	for i := range e.nodes {
		n := &e.nodes[i]
		n.a = 0
		n.b = 0
		n.z = 0
		n.vs = 0
	}
}

// Faulted reports whether a non-finite value was scrubbed from the
// engine state since the last Reset.
func (e *Engine) Faulted() bool { return e.faulted.Load() }

// State returns the capacitor's delayed wave, the tree's entire memory.
func (e *Engine) State() float64 { return e.nodes[handleCapacitor].z }

// SetState restores an externally saved delayed wave.
func (e *Engine) SetState(z float64) error {
	if !circuit.IsFinite(z) {
		return fmt.Errorf("wdf: state must be finite: %v", z)
	}

	e.nodes[handleCapacitor].z = z

	return nil
}

// CapacitorVoltage returns the capacitor port voltage (a+b)/2 after
// the most recent sample.
func (e *Engine) CapacitorVoltage() float64 {
	n := &e.nodes[handleCapacitor]
	return (n.a + n.b) / 2
}

// CapacitorCurrent returns the capacitor port current (a-b)/(2*R0)
// after the most recent sample.
func (e *Engine) CapacitorCurrent() float64 {
	n := &e.nodes[handleCapacitor]
	return (n.a - n.b) / (2 * n.r0)
}

// rebuild recomputes port resistances bottom-up: leaves, then the
// adaptor, then the root. The order matters; alpha derives from the
// leaf resistances.
func (e *Engine) rebuild() {
	rR := e.resistance
	rC := circuit.WaveImpedance(e.capacitance, e.sampleRate)
	rS := rR + rC

	e.rebuilds++
	e.active.Store(&coeffs{
		resistorR0:  rR,
		capacitorR0: rC,
		seriesR0:    rS,
		alpha:       rR / rS,
	})
}

// apply writes a published coefficient set into the arena,
// leaves-first like the recompute protocol.
func (e *Engine) apply(c *coeffs) {
	e.nodes[handleResistor].r0 = c.resistorR0
	e.nodes[handleCapacitor].r0 = c.capacitorR0
	e.nodes[handleSeries].r0 = c.seriesR0
	e.nodes[handleSeries].alpha = c.alpha
	e.nodes[handleSource].r0 = 0 // ideal source: no series resistance

	e.applied = c
}
