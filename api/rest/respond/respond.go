// Package respond maps the fault taxonomy onto HTTP errors.
package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/pkg/errors"
)

// Error translates a service error into an echo HTTP error.
// Execution-time failures never reach this path; they live on
// the job record and are discovered by polling.
func Error(err error) error {
	var verr *fault.ValidationError

	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": "validation failed",
			"fields":  verr.Fields,
		})
	case errors.Is(err, fault.ErrUnsupportedStimulus),
		errors.Is(err, fault.ErrInvalidArtifact):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, fault.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, fault.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.ErrInternalServerError.SetInternal(err)
	}
}
