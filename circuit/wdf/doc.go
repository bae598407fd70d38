// Package wdf simulates the series RC lowpass as a wave digital
// filter: a fixed tree of one-ports exchanging incident and reflected
// waves through a two-port series adaptor under an ideal voltage
// source root.
//
// Each port carries an incident wave a and a reflected wave b related
// to the physical quantities by v = (a+b)/2 and i = (a-b)/(2*R0),
// where R0 is the port resistance. Per sample the tree runs two
// strictly ordered passes:
//
//  1. Up-sweep: reflected waves propagate from the leaves to the root.
//     The matched resistor reflects nothing, the capacitor reflects
//     its one-sample-delayed incident wave, and the adaptor combines
//     its children.
//  2. Down-sweep: the root turns the arriving wave into its Thevenin
//     reflection b = 2*vIn - a and pushes it down; the adaptor splits
//     it between its children using the cached weight
//     alpha = R0(resistor)/R0(adaptor).
//
// The capacitor's delayed wave is the tree's entire memory; everything
// else is recomputed each sample. The output is the capacitor port
// voltage.
//
// The tree is an arena of four nodes addressed by stable handles; the
// adaptor stores child handles rather than pointers, and the node set
// is closed (resistor, capacitor, series adaptor, source root).
package wdf
