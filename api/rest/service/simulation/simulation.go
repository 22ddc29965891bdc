// Package simulation exposes the job operations to the
// transport adapters: submit, status, results, cancel.
package simulation

import (
	"context"

	"github.com/google/uuid"
	"github.com/neurosim-cloud/neurosim/internal/job"
	"github.com/neurosim-cloud/neurosim/internal/models"
	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/internal/results"
	"github.com/neurosim-cloud/neurosim/internal/scheduler"
)

// Service is the single internal API behind both network
// surfaces. Submission and cancellation delegate to the
// scheduler; reads go straight to the stores.
type Service struct {
	jobs      *job.Store
	results   *results.Store
	scheduler *scheduler.Scheduler
}

func New(jobs *job.Store, res *results.Store, sched *scheduler.Scheduler) *Service {
	if jobs == nil || res == nil || sched == nil {
		panic("simulation service requires job store, results store, and scheduler")
	}
	return &Service{jobs: jobs, results: res, scheduler: sched}
}

// Submit validates and admits a simulation request. The
// returned job is pending; execution is asynchronous.
func (s *Service) Submit(ctx context.Context, req *protocol.Request) (*models.Job, error) {
	return s.scheduler.Submit(ctx, req)
}

// Get returns a job's record: status, timestamps, and error.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.jobs.Get(ctx, id)
}

// ListRequest filters List.
type ListRequest struct {
	Status  models.JobStatus
	ModelID string
	Limit   int
	Offset  int
}

// List returns jobs in submission order.
func (s *Service) List(ctx context.Context, req *ListRequest) (models.Jobs, error) {
	if req == nil {
		return s.jobs.List(ctx, nil)
	}
	return s.jobs.List(ctx, &job.ListRequest{
		Status:  req.Status,
		ModelID: req.ModelID,
		Limit:   req.Limit,
		Offset:  req.Offset,
	})
}

// Results returns the stored result set for a completed job.
// The job lookup runs first, so an unknown job id and a job
// without results surface as distinct not-found errors.
func (s *Service) Results(ctx context.Context, id uuid.UUID) (*results.ResultSet, error) {
	if _, err := s.jobs.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.results.Get(id)
}

// Cancel cancels a pending or running job.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.scheduler.Cancel(ctx, id)
}
