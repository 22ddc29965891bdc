package simulation

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/rest/respond"
)

// Delete requests cancellation. Pending jobs are cancelled
// immediately; running jobs are signalled and settle to
// cancelled asynchronously.
func (ctrl *Controller) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	if err := ctrl.svc.Cancel(c.Request().Context(), id); err != nil {
		return respond.Error(err)
	}

	return c.NoContent(http.StatusAccepted)
}
