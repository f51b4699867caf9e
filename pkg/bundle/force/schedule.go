package force

import "math"

// Params are the simulation constants. They mirror the bundling
// configuration without importing it.
type Params struct {
	K               float64 // spring constant
	E               float64 // electrostatic constant
	Cycles          int
	Subdivisions    int // interior points during the first cycle
	Step            float64
	StepRate        float64
	SubdivisionRate float64
	Iterations      int
	IterationRate   float64
	Eps             float64

	// Midpoint grows polylines by midpoint insertion (P → 2P+1) instead of
	// arc-length resampling (P → P·SubdivisionRate).
	Midpoint bool
}

// Cycle describes one simulation cycle.
type Cycle struct {
	Index        int     `json:"index"`
	Iterations   int     `json:"iterations"`
	Step         float64 `json:"step"`
	Subdivisions int     `json:"subdivisions"`
}

// Schedule expands p into its per-cycle parameters. Iterations decay by
// floor(I·IterationRate), the step by StepRate and the subdivision count
// grows once per cycle boundary.
func Schedule(p Params) []Cycle {
	if p.Cycles <= 0 {
		return nil
	}
	cycles := make([]Cycle, p.Cycles)
	iters, step, subs := p.Iterations, p.Step, max(p.Subdivisions, 1)
	for c := range cycles {
		cycles[c] = Cycle{Index: c, Iterations: iters, Step: step, Subdivisions: subs}
		iters = int(math.Floor(float64(iters) * p.IterationRate))
		step *= p.StepRate
		subs = nextSubdivisions(subs, p)
	}
	return cycles
}

func nextSubdivisions(subs int, p Params) int {
	if p.Midpoint {
		return 2*subs + 1
	}
	next := int(math.Floor(float64(subs) * p.SubdivisionRate))
	return max(next, subs)
}
