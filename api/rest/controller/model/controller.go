// Package model holds the REST controllers for the model
// registry endpoints.
package model

import (
	"github.com/neurosim-cloud/neurosim/api/rest/service/model"
)

type Controller struct {
	svc *model.Service
}

func New(svc *model.Service) *Controller {
	return &Controller{svc: svc}
}
