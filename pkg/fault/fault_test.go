package fault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelWrapping(t *testing.T) {
	err := NotFound("model", "simple_neuron")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "simple_neuron")

	err = Conflict("job %s already running", "abc")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.True(t, verr.Empty())

	verr.Add("conditions.dt", "must be greater than zero")
	verr.Add("recordings", "must not be empty")
	assert.False(t, verr.Empty())
	assert.Len(t, verr.Fields, 2)
	assert.Equal(t, "conditions.dt", verr.Fields[0].Field)
	assert.Contains(t, verr.Error(), "conditions.dt: must be greater than zero")

	var target *ValidationError
	assert.True(t, errors.As(error(verr), &target))
}
