package engine

import (
	"context"
	"math"

	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/pkg/errors"
)

// chunkSize bounds how many samples are computed between
// cancellation checks.
const chunkSize = 4096

// inputResistance converts clamp current to a membrane voltage
// deflection, in mV per nA.
const inputResistance = 20.0

// Analytic is the built-in engine: a closed-form membrane trace
// rather than a numerical integration. The baseline is a slow
// oscillation around the initial potential; a current clamp
// adds an ohmic deflection during its window and a voltage
// clamp pins the trace to the command potential.
type Analytic struct{}

func NewAnalytic() *Analytic {
	return &Analytic{}
}

func (e *Analytic) Run(ctx context.Context, spec *RunSpec) (*Output, error) {
	for _, rec := range spec.Recordings {
		if !hasSection(spec, rec.Section) {
			return nil, errors.Wrapf(
				fault.ErrEngineFailure,
				"model %q has no section %q", spec.Model.Name, rec.Section)
		}
	}

	var (
		cond = spec.Conditions
		n    = int(math.Floor(cond.Duration/cond.Dt)) + 1
	)

	out := &Output{
		Time:   make([]float64, n),
		Series: make([][]float64, len(spec.Recordings)),
	}
	for i := range out.Series {
		out.Series[i] = make([]float64, n)
	}

	for start := 0; start < n; start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + chunkSize
		if end > n {
			end = n
		}

		for j := start; j < end; j++ {
			t := float64(j) * cond.Dt
			v := membrane(t, &spec.Stimulus, &cond)

			out.Time[j] = t
			for i := range out.Series {
				out.Series[i][j] = v
			}
		}
	}

	return out, nil
}

func membrane(t float64, stim *protocol.Stimulus, cond *protocol.Conditions) float64 {
	v := cond.VInit + 10*math.Sin(t/100)

	inWindow := t >= stim.Delay && t < stim.Delay+stim.Duration
	if !inWindow {
		return v
	}

	switch stim.Kind {
	case protocol.StimulusIClamp:
		return v + stim.Amplitude*inputResistance
	case protocol.StimulusVClamp:
		return stim.Amplitude
	}

	return v
}

func hasSection(spec *RunSpec, name string) bool {
	for _, section := range spec.Model.Sections {
		if section.Name == name {
			return true
		}
	}
	return false
}
