// Command rcsim runs the RC lowpass simulation engines and prints
// their step or impulse responses.
//
// Usage:
//
//	rcsim [flags]
//
// Examples:
//
//	rcsim -method all -samples 16
//	rcsim -method wdf -input impulse -r 4700 -c 1e-6
//	rcsim -r 10000 -c 1e-6 -samples 2048 -plot step.png
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-circuit/circuit"
	"github.com/cwbudde/algo-circuit/circuit/dk"
	"github.com/cwbudde/algo-circuit/circuit/mna"
	"github.com/cwbudde/algo-circuit/circuit/wdf"
	"github.com/cwbudde/algo-circuit/measure/step"
)

type namedEngine struct {
	name   string
	engine circuit.Engine
}

func main() {
	var (
		methodName  = flag.String("method", "all", "engine: mna, dk, wdf, or all")
		sampleRate  = flag.Float64("sr", circuit.DefaultSampleRate, "sample rate in Hz")
		resistance  = flag.Float64("r", circuit.DefaultResistance, "resistance knob value")
		capacitance = flag.Float64("c", circuit.DefaultCapacitance, "capacitance knob value")
		samples     = flag.Int("samples", 16, "number of samples to simulate")
		input       = flag.String("input", "step", "input signal: step or impulse")
		plotPath    = flag.String("plot", "", "write a PNG of the responses to this file")
	)

	flag.Parse()

	engines, err := buildEngines(*methodName, *sampleRate, *resistance, *capacitance)
	if err != nil {
		fatal(err)
	}

	if *samples <= 0 {
		fatal(fmt.Errorf("rcsim: samples must be > 0: %d", *samples))
	}

	responses := make([][]float64, len(engines))
	for i, ne := range engines {
		responses[i] = capture(ne.engine, *input, *samples)
	}

	printTable(engines, responses, *sampleRate)

	if *input == "step" {
		printTimeConstants(engines, responses, *sampleRate, *resistance, *capacitance)
	}

	if *plotPath != "" {
		if err := writePlot(*plotPath, engines, responses, *sampleRate, *input); err != nil {
			fatal(err)
		}

		fmt.Printf("wrote %s\n", *plotPath)
	}
}

func buildEngines(methodName string, sampleRate, resistance, capacitance float64) ([]namedEngine, error) {
	methods := []circuit.Method{circuit.MethodMNA, circuit.MethodDK, circuit.MethodWDF}

	if methodName != "all" {
		m, err := circuit.ParseMethod(methodName)
		if err != nil {
			return nil, err
		}

		methods = []circuit.Method{m}
	}

	engines := make([]namedEngine, 0, len(methods))

	for _, m := range methods {
		var (
			e   circuit.Engine
			err error
		)

		switch m {
		case circuit.MethodMNA:
			e, err = mna.New(sampleRate,
				mna.WithResistance(resistance), mna.WithCapacitance(capacitance))
		case circuit.MethodDK:
			e, err = dk.New(sampleRate,
				dk.WithResistance(resistance), dk.WithCapacitance(capacitance))
		case circuit.MethodWDF:
			e, err = wdf.New(sampleRate,
				wdf.WithResistance(resistance), wdf.WithCapacitance(capacitance))
		}

		if err != nil {
			return nil, err
		}

		engines = append(engines, namedEngine{name: m.String(), engine: e})
	}

	return engines, nil
}

func capture(e circuit.Engine, input string, n int) []float64 {
	out := make([]float64, n)

	for i := range out {
		x := 0.0

		switch input {
		case "impulse":
			if i == 0 {
				x = 1
			}
		default: // step
			x = 1
		}

		out[i] = e.ProcessSample(x)
	}

	return out
}

func printTable(engines []namedEngine, responses [][]float64, sampleRate float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "sample\tt (ms)")
	for _, ne := range engines {
		fmt.Fprintf(w, "\t%s", ne.name)
	}
	fmt.Fprintln(w)

	for i := range responses[0] {
		fmt.Fprintf(w, "%d\t%.3f", i, 1000*float64(i)/sampleRate)
		for _, resp := range responses {
			fmt.Fprintf(w, "\t%+.9f", resp[i])
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}

func printTimeConstants(engines []namedEngine, responses [][]float64, sampleRate, resistance, capacitance float64) {
	analyzer := step.NewAnalyzer(sampleRate)

	fmt.Printf("\nanalytic tau: %.6g s (%.1f samples)\n",
		circuit.TimeConstant(resistance, capacitance),
		circuit.TimeConstant(resistance, capacitance)*sampleRate)

	for i, ne := range engines {
		m, err := analyzer.Analyze(responses[i])
		if err != nil {
			fmt.Printf("%s: %v\n", ne.name, err)
			continue
		}

		fmt.Printf("%s: final %.6f, tau %.6g s, crossing at sample %d\n",
			ne.name, m.FinalValue, m.TimeConstant, m.TimeConstantIndex)
	}
}

func writePlot(path string, engines []namedEngine, responses [][]float64, sampleRate float64, input string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("RC lowpass %s response", input)
	p.X.Label.Text = "time (ms)"
	p.Y.Label.Text = "output"

	for i, ne := range engines {
		pts := make(plotter.XYs, len(responses[i]))
		for j, v := range responses[i] {
			pts[j].X = 1000 * float64(j) / sampleRate
			pts[j].Y = v
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("rcsim: plot line for %s: %w", ne.name, err)
		}

		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(ne.name, line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("rcsim: save plot: %w", err)
	}

	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
