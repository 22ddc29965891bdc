package simulation

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/rest/respond"
)

func (ctrl *Controller) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	j, err := ctrl.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respond.Error(err)
	}

	return c.JSON(http.StatusOK, j)
}
