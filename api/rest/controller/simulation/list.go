package simulation

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/rest/respond"
	"github.com/neurosim-cloud/neurosim/api/rest/service/simulation"
	"github.com/neurosim-cloud/neurosim/internal/models"
)

func (ctrl *Controller) List(c echo.Context) error {
	req, err := parseListRequest(c)
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	jobs, err := ctrl.svc.List(c.Request().Context(), req)
	if err != nil {
		return respond.Error(err)
	}

	return c.JSON(http.StatusOK, jobs)
}

func parseListRequest(c echo.Context) (req *simulation.ListRequest, err error) {
	req = &simulation.ListRequest{
		Status:  models.JobStatus(c.QueryParam("status")),
		ModelID: c.QueryParam("model_id"),
	}

	if limit := c.QueryParam("limit"); limit != "" {
		if req.Limit, err = strconv.Atoi(limit); err != nil {
			return nil, err
		}
	}

	if offset := c.QueryParam("offset"); offset != "" {
		if req.Offset, err = strconv.Atoi(offset); err != nil {
			return nil, err
		}
	}

	return
}
