package model

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/rest/respond"
)

func (ctrl *Controller) List(c echo.Context) error {
	ms, err := ctrl.svc.List(c.Request().Context())
	if err != nil {
		return respond.Error(err)
	}

	return c.JSON(http.StatusOK, ms)
}
