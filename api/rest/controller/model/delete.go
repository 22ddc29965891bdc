package model

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/rest/respond"
)

// Delete removes a model. Models referenced by pending or
// running jobs respond with a conflict.
func (ctrl *Controller) Delete(c echo.Context) error {
	if err := ctrl.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respond.Error(err)
	}

	return c.NoContent(http.StatusNoContent)
}
