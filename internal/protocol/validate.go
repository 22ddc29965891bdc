package protocol

import (
	"fmt"

	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/pkg/errors"
)

// ModelLookup answers model existence questions for the
// validator. The registry satisfies it.
type ModelLookup interface {
	Exists(id string) (bool, error)
}

// Validate checks a simulation request. The model existence
// lookup happens first: a nonexistent model fails with
// ErrNotFound before any field check, so no job is ever
// created for an unknown model. An unknown stimulus kind fails
// with ErrUnsupportedStimulus. Everything else is collected
// into a single ValidationError listing every violated field
// in a deterministic order: stimulus, recordings, conditions.
func Validate(req *Request, lookup ModelLookup) error {
	if req.ModelID == "" {
		verr := &fault.ValidationError{}
		verr.Add("model_id", "must not be empty")
		return verr
	}

	ok, err := lookup.Exists(req.ModelID)
	if err != nil {
		return errors.Wrap(err, "model lookup failed")
	}
	if !ok {
		return fault.NotFound("model", req.ModelID)
	}

	verr := &fault.ValidationError{}

	switch req.Stimulus.Kind {
	case StimulusIClamp:
		validateClamp(&req.Stimulus, verr)
	case StimulusVClamp:
		validateClamp(&req.Stimulus, verr)
		if req.Stimulus.SeriesResistance < 0 {
			verr.Add("stimulus.rs", "must not be negative")
		}
	default:
		return errors.Wrapf(
			fault.ErrUnsupportedStimulus,
			"kind %q", req.Stimulus.Kind)
	}

	if len(req.Recordings) == 0 {
		verr.Add("recordings", "must not be empty")
	}
	for i, rec := range req.Recordings {
		if rec.Section == "" {
			verr.Add(fmt.Sprintf("recordings[%d].section", i), "must not be empty")
		}
		if rec.Variable == "" {
			verr.Add(fmt.Sprintf("recordings[%d].variable", i), "must not be empty")
		}
	}

	if req.Conditions.Duration <= 0 {
		verr.Add("conditions.duration", "must be greater than zero")
	}
	if req.Conditions.Dt <= 0 {
		verr.Add("conditions.dt", "must be greater than zero")
	} else if req.Conditions.Duration > 0 && req.Conditions.Dt > req.Conditions.Duration {
		verr.Add("conditions.dt", "must not exceed conditions.duration")
	}

	if verr.Empty() {
		return nil
	}

	return verr
}

func validateClamp(stim *Stimulus, verr *fault.ValidationError) {
	if stim.Delay < 0 {
		verr.Add("stimulus.delay", "must not be negative")
	}
	if stim.Duration <= 0 {
		verr.Add("stimulus.duration", "must be greater than zero")
	}
}
