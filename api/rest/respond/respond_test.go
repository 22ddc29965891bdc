package respond

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func code(t *testing.T, err error) int {
	t.Helper()

	var herr *echo.HTTPError
	if !errors.As(Error(err), &herr) {
		t.Fatal("expected an HTTP error")
	}
	return herr.Code
}

func TestErrorMapping(t *testing.T) {
	verr := &fault.ValidationError{}
	verr.Add("conditions.dt", "must be positive")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", verr, http.StatusBadRequest},
		{"unsupported stimulus", fault.ErrUnsupportedStimulus, http.StatusBadRequest},
		{"invalid artifact", errors.Wrap(fault.ErrInvalidArtifact, "no sections"), http.StatusBadRequest},
		{"not found", fault.NotFound("job", "deadbeef"), http.StatusNotFound},
		{"conflict", fault.Conflict("already cancelled"), http.StatusConflict},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, code(t, tt.err))
		})
	}
}
