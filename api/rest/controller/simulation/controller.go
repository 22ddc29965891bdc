// Package simulation holds the REST controllers for the
// simulation endpoints.
package simulation

import (
	"github.com/neurosim-cloud/neurosim/api/rest/service/simulation"
)

type Controller struct {
	svc *simulation.Service
}

func New(svc *simulation.Service) *Controller {
	return &Controller{svc: svc}
}
