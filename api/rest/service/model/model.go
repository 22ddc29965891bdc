// Package model exposes the registry operations to the
// transport adapters.
package model

import (
	"context"
	"time"

	"github.com/neurosim-cloud/neurosim/internal/event"
	"github.com/neurosim-cloud/neurosim/internal/metrics"
	"github.com/neurosim-cloud/neurosim/internal/models"
	"github.com/neurosim-cloud/neurosim/internal/registry"
)

// Service wraps the model registry. Both the REST and GraphQL
// surfaces go through it so they cannot diverge.
type Service struct {
	registry *registry.Registry
	bus      event.Bus
}

func New(reg *registry.Registry, bus event.Bus) *Service {
	if reg == nil {
		panic("model service requires registry")
	}
	return &Service{registry: reg, bus: bus}
}

// Upload registers raw artifact bytes as a new model.
func (s *Service) Upload(ctx context.Context, raw []byte) (*models.Model, error) {
	model, err := s.registry.Register(ctx, raw)
	if err != nil {
		return nil, err
	}

	metrics.ModelsRegistered.Inc()
	s.publish(event.TypeModelUploaded, model.ID)

	return model, nil
}

// Get returns one model by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Model, error) {
	return s.registry.Get(ctx, id)
}

// List returns all registered models ordered by upload time.
func (s *Service) List(ctx context.Context) (models.Models, error) {
	return s.registry.List(ctx)
}

// Delete removes a model unless a non-terminal job references it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.registry.Delete(ctx, id); err != nil {
		return err
	}

	metrics.ModelsRegistered.Dec()
	s.publish(event.TypeModelDeleted, id)

	return nil
}

func (s *Service) publish(t event.Type, modelID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		Type:      t,
		ModelID:   modelID,
		Timestamp: time.Now().UTC(),
	})
}
