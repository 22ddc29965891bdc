package model

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/neurosim-cloud/neurosim/api/rest/respond"
	"github.com/neurosim-cloud/neurosim/pkg/log"
)

// maxArtifactSize caps uploaded model definitions at 1 MiB.
const maxArtifactSize = 1 << 20

// Post uploads a model artifact. The body is the raw YAML
// definition; multipart uploads send it as the "model" part.
func (ctrl *Controller) Post(c echo.Context) error {
	raw, err := artifactBytes(c)
	if err != nil {
		return echo.ErrBadRequest.SetInternal(err)
	}

	m, err := ctrl.svc.Upload(c.Request().Context(), raw)
	if err != nil {
		return respond.Error(err)
	}

	log.Info("model uploaded", "model_id", m.ID, "name", m.Name)

	return c.JSON(http.StatusCreated, m)
}

func artifactBytes(c echo.Context) ([]byte, error) {
	if fh, err := c.FormFile("model"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxArtifactSize))
	}

	return io.ReadAll(io.LimitReader(c.Request().Body, maxArtifactSize))
}
