package engine

import (
	"context"
	"math"
	"testing"

	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/internal/registry"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/stretchr/testify/assert"
)

func spec() *RunSpec {
	return &RunSpec{
		Model: &registry.Artifact{
			Name:     "simple_neuron",
			Sections: []registry.Section{{Name: "soma"}},
		},
		Stimulus: protocol.Stimulus{
			Kind:      protocol.StimulusIClamp,
			Delay:     100,
			Duration:  500,
			Amplitude: 0.5,
		},
		Recordings: []protocol.Recording{{Section: "soma", Variable: "v"}},
		Conditions: protocol.Conditions{
			Duration: 1000,
			Dt:       0.025,
			VInit:    -65,
			Celsius:  34,
		},
	}
}

func TestAnalyticRun(t *testing.T) {
	out, err := NewAnalytic().Run(context.Background(), spec())
	assert.Nil(t, err)

	wantSamples := 40001 // [0, 1000] ms at 0.025 ms resolution
	assert.Len(t, out.Time, wantSamples)
	assert.Len(t, out.Series, 1)
	assert.Len(t, out.Series[0], wantSamples)

	assert.Equal(t, 0.0, out.Time[0])
	assert.InDelta(t, 1000.0, out.Time[wantSamples-1], 1e-9)

	// rest before the stimulus window
	assert.InDelta(t, -65.0, out.Series[0][0], 1e-9)

	// ohmic deflection inside the window
	idx := int(200 / 0.025)
	base := -65.0 + 10*math.Sin(200.0/100)
	assert.InDelta(t, base+0.5*inputResistance, out.Series[0][idx], 1e-9)
}

func TestAnalyticVClampPins(t *testing.T) {
	s := spec()
	s.Stimulus.Kind = protocol.StimulusVClamp
	s.Stimulus.Amplitude = -40

	out, err := NewAnalytic().Run(context.Background(), s)
	assert.Nil(t, err)

	idx := int(200 / 0.025)
	assert.Equal(t, -40.0, out.Series[0][idx])
}

func TestAnalyticUnknownSection(t *testing.T) {
	s := spec()
	s.Recordings = []protocol.Recording{{Section: "dendrite", Variable: "v"}}

	_, err := NewAnalytic().Run(context.Background(), s)
	assert.ErrorIs(t, err, fault.ErrEngineFailure)
}

func TestAnalyticCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalytic().Run(ctx, spec())
	assert.ErrorIs(t, err, context.Canceled)
}
