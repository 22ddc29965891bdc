package model

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/rest/respond"
)

func (ctrl *Controller) Get(c echo.Context) error {
	m, err := ctrl.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respond.Error(err)
	}

	return c.JSON(http.StatusOK, m)
}
