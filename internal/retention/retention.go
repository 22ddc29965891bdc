// Package retention prunes terminal jobs and their results
// once they outlive the configured retention age.
package retention

import (
	"context"
	"time"

	"github.com/neurosim-cloud/neurosim/internal/job"
	"github.com/neurosim-cloud/neurosim/internal/results"
	"github.com/neurosim-cloud/neurosim/pkg/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

// Sweeper deletes terminal jobs older than the retention age
// on a cron schedule. Pending and running jobs are never
// touched.
type Sweeper struct {
	jobs     *job.Store
	results  *results.Store
	age      time.Duration
	schedule cron.Schedule
}

// New builds a sweeper. The schedule accepts standard cron
// expressions and descriptors such as "@hourly".
func New(jobs *job.Store, res *results.Store, age time.Duration, schedule string) (*Sweeper, error) {
	if jobs == nil || res == nil {
		panic("sweeper requires job store and results store")
	}
	if age <= 0 {
		return nil, errors.New("retention age must be positive")
	}

	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid retention schedule %q", schedule)
	}

	return &Sweeper{
		jobs:     jobs,
		results:  res,
		age:      age,
		schedule: sched,
	}, nil
}

// Run sweeps on schedule until the context is done.
func (s *Sweeper) Run(ctx context.Context) {
	log.Info("retention sweeper started", "age", s.age)

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(s.schedule.Next(time.Now()))):
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass: terminal jobs finished before the
// cutoff are removed along with their stored results.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.age)

	ids, err := s.jobs.SweepTerminal(ctx, cutoff)
	if err != nil {
		log.Error("retention sweep failed", "error", err)
		return
	}

	for _, id := range ids {
		if err := s.results.Delete(id); err != nil {
			log.Warn("failed to delete results", "job_id", id, "error", err)
		}
	}

	if len(ids) > 0 {
		log.Info("retention sweep removed jobs", "count", len(ids))
	}
}
