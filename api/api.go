// Package api assembles and serves the network surfaces: the
// primary REST listener and the optional GraphQL listener.
package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/neurosim-cloud/neurosim/api/gql"
	"github.com/neurosim-cloud/neurosim/api/gql/schema"
	"github.com/neurosim-cloud/neurosim/api/rest/bind"
	eventc "github.com/neurosim-cloud/neurosim/api/rest/controller/event"
	modelc "github.com/neurosim-cloud/neurosim/api/rest/controller/model"
	simc "github.com/neurosim-cloud/neurosim/api/rest/controller/simulation"
	modelsvc "github.com/neurosim-cloud/neurosim/api/rest/service/model"
	simsvc "github.com/neurosim-cloud/neurosim/api/rest/service/simulation"
	"github.com/neurosim-cloud/neurosim/internal/event"
	"github.com/neurosim-cloud/neurosim/pkg/env"
	"github.com/neurosim-cloud/neurosim/pkg/log"
)

// API owns the HTTP listeners.
type API struct {
	rest *echo.Echo
	gql  *echo.Echo
}

// New assembles the listeners around the shared service layer.
func New(models *modelsvc.Service, sims *simsvc.Service, bus event.Bus) *API {
	vars := env.Variables()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: vars.CorsOrigins,
	}))

	// health
	e.GET("/health", Health)

	// metrics
	e.Use(echoprometheus.NewMiddleware("neurosim"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// REST
	bind.All(e.Group("/v1"), &bind.Controllers{
		Model:      modelc.New(models),
		Simulation: simc.New(sims),
		Event:      eventc.New(bus),
	}, vars.RequestTimeout)

	a := &API{rest: e}

	if vars.GqlEnable {
		g := echo.New()
		g.HideBanner = true
		g.HidePort = true
		h := gql.Handler(&schema.Services{
			Models:      models,
			Simulations: sims,
		})
		g.GET("/gql", h)
		g.POST("/gql", h)
		a.gql = g
	}

	return a
}

// Start serves the listeners until Shutdown. It blocks on the
// primary listener; the GraphQL listener, when enabled, runs
// on its own port.
func (a *API) Start() error {
	vars := env.Variables()

	if a.gql != nil {
		go func() {
			addr := fmt.Sprintf("%v:%v", vars.GqlHost, vars.GqlPort)
			log.Info("graphql listener started", "address", addr)

			if err := a.gql.Start(addr); err != nil {
				log.Warn("graphql listener stopped", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%v:%v", vars.Host, vars.Port)
	log.Info("rest listener started", "address", addr)

	return a.rest.Start(addr)
}

// Shutdown drains both listeners.
func (a *API) Shutdown(ctx context.Context) error {
	if a.gql != nil {
		if err := a.gql.Shutdown(ctx); err != nil {
			log.Warn("graphql listener shutdown failed", "error", err)
		}
	}
	return a.rest.Shutdown(ctx)
}
