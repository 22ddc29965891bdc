package protocol

import (
	"errors"
	"testing"

	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/stretchr/testify/assert"
)

type fakeLookup struct {
	known map[string]bool
	err   error
}

func (f *fakeLookup) Exists(id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[id], nil
}

func validRequest() *Request {
	return &Request{
		ModelID: "simple_neuron",
		Stimulus: Stimulus{
			Kind:      StimulusIClamp,
			Delay:     100,
			Duration:  500,
			Amplitude: 0.5,
		},
		Recordings: []Recording{{Section: "soma", Variable: "v"}},
		Conditions: Conditions{
			Duration: 1000,
			Dt:       0.025,
			VInit:    -65,
			Celsius:  34,
		},
	}
}

func lookup() *fakeLookup {
	return &fakeLookup{known: map[string]bool{"simple_neuron": true}}
}

func TestValidateAccepts(t *testing.T) {
	assert.Nil(t, Validate(validRequest(), lookup()))
}

func TestValidateVClamp(t *testing.T) {
	req := validRequest()
	req.Stimulus.Kind = StimulusVClamp
	req.Stimulus.Amplitude = -65
	req.Stimulus.SeriesResistance = 0.1
	assert.Nil(t, Validate(req, lookup()))

	req.Stimulus.SeriesResistance = -1
	err := Validate(req, lookup())
	assertViolated(t, err, "stimulus.rs")
}

func TestValidateUnknownModel(t *testing.T) {
	req := validRequest()
	req.ModelID = "missing"
	err := Validate(req, lookup())
	assert.True(t, errors.Is(err, fault.ErrNotFound))
}

func TestValidateUnsupportedStimulus(t *testing.T) {
	req := validRequest()
	req.Stimulus.Kind = "RampClamp"
	err := Validate(req, lookup())
	assert.True(t, errors.Is(err, fault.ErrUnsupportedStimulus))
}

func TestValidateFieldViolations(t *testing.T) {
	for _, tt := range []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"negative delay", func(r *Request) { r.Stimulus.Delay = -1 }, "stimulus.delay"},
		{"zero stimulus duration", func(r *Request) { r.Stimulus.Duration = 0 }, "stimulus.duration"},
		{"no recordings", func(r *Request) { r.Recordings = nil }, "recordings"},
		{"blank section", func(r *Request) { r.Recordings[0].Section = "" }, "recordings[0].section"},
		{"blank variable", func(r *Request) { r.Recordings[0].Variable = "" }, "recordings[0].variable"},
		{"zero duration", func(r *Request) { r.Conditions.Duration = 0 }, "conditions.duration"},
		{"zero dt", func(r *Request) { r.Conditions.Dt = 0 }, "conditions.dt"},
		{"dt exceeds duration", func(r *Request) { r.Conditions.Dt = 2000 }, "conditions.dt"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assertViolated(t, Validate(req, lookup()), tt.field)
		})
	}
}

func TestValidateReportsAllFields(t *testing.T) {
	req := validRequest()
	req.Stimulus.Duration = 0
	req.Recordings = nil
	req.Conditions.Dt = 0

	var verr *fault.ValidationError
	assert.True(t, errors.As(Validate(req, lookup()), &verr))
	assert.Equal(t, []string{
		"stimulus.duration",
		"recordings",
		"conditions.dt",
	}, fieldNames(verr))

	// deterministic: a second pass yields the same order
	var again *fault.ValidationError
	assert.True(t, errors.As(Validate(req, lookup()), &again))
	assert.Equal(t, fieldNames(verr), fieldNames(again))
}

func TestValidateLookupFailure(t *testing.T) {
	req := validRequest()
	err := Validate(req, &fakeLookup{err: errors.New("db closed")})
	assert.NotNil(t, err)
	assert.False(t, errors.Is(err, fault.ErrNotFound))
}

func assertViolated(t *testing.T, err error, field string) {
	t.Helper()

	var verr *fault.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	for _, f := range verr.Fields {
		if f.Field == field {
			return
		}
	}
	t.Fatalf("field %q not violated in %v", field, verr)
}

func fieldNames(verr *fault.ValidationError) []string {
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}
