// Package bind wires the REST controllers to the versioned
// route group.
package bind

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/neurosim-cloud/neurosim/api/rest/controller/event"
	"github.com/neurosim-cloud/neurosim/api/rest/controller/model"
	"github.com/neurosim-cloud/neurosim/api/rest/controller/simulation"
)

// Controllers carries the instantiated REST controllers.
type Controllers struct {
	Model      *model.Controller
	Simulation *simulation.Controller
	Event      *event.Controller
}

// All binds every endpoint under the group. The request
// timeout applies to the plain request/response endpoints;
// the event stream is long-lived and exempt.
func All(g *echo.Group, ctrl *Controllers, requestTimeout time.Duration) {
	timed := g.Group("")
	if requestTimeout > 0 {
		timed.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout: requestTimeout,
		}))
	}

	// models
	{
		timed.GET("/models", ctrl.Model.List)
		timed.GET("/models/:id", ctrl.Model.Get)
		timed.POST("/models", ctrl.Model.Post)
		timed.DELETE("/models/:id", ctrl.Model.Delete)
	}

	// simulations
	{
		timed.GET("/simulations", ctrl.Simulation.List)
		timed.GET("/simulations/:id", ctrl.Simulation.Get)
		timed.GET("/simulations/:id/results", ctrl.Simulation.Results)
		timed.POST("/simulations", ctrl.Simulation.Post)
		timed.DELETE("/simulations/:id", ctrl.Simulation.Delete)
	}

	// events
	g.GET("/events", ctrl.Event.Stream)
}
