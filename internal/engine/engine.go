// Package engine defines the boundary to the numerical
// simulator. The orchestrator treats a run as an opaque,
// long-running, CPU-bound computation; everything behind the
// Engine interface is replaceable.
package engine

import (
	"context"

	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/internal/registry"
)

// RunSpec is everything an engine needs to execute one job.
type RunSpec struct {
	Model      *registry.Artifact
	Stimulus   protocol.Stimulus
	Recordings []protocol.Recording
	Conditions protocol.Conditions
}

// Output is the raw engine product: a shared time vector and
// one value series per recording, in request order.
type Output struct {
	Time   []float64
	Series [][]float64
}

// Engine runs one simulation to completion. Implementations
// must honor context cancellation, returning ctx.Err() promptly
// once the context is done; the scheduler maps cancellation and
// deadline errors onto the job's terminal status.
type Engine interface {
	Run(ctx context.Context, spec *RunSpec) (*Output, error)
}
