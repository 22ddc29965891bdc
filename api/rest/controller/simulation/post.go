package simulation

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/rest/respond"
	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/pkg/log"
)

func (ctrl *Controller) Post(c echo.Context) error {
	req := &protocol.Request{}

	if err := c.Bind(req); err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	log.Info(
		"submitting simulation",
		"model_id", req.ModelID,
		"stimulus", req.Stimulus.Kind)

	j, err := ctrl.svc.Submit(c.Request().Context(), req)
	if err != nil {
		return respond.Error(err)
	}

	return c.JSON(http.StatusAccepted, j)
}
