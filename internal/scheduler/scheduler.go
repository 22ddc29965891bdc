// Package scheduler admits simulation jobs, bounds their
// concurrent execution, and drives the job state machine.
package scheduler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/neurosim-cloud/neurosim/internal/engine"
	"github.com/neurosim-cloud/neurosim/internal/event"
	"github.com/neurosim-cloud/neurosim/internal/job"
	"github.com/neurosim-cloud/neurosim/internal/metrics"
	"github.com/neurosim-cloud/neurosim/internal/models"
	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/internal/registry"
	"github.com/neurosim-cloud/neurosim/internal/results"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/neurosim-cloud/neurosim/pkg/log"
	"github.com/pkg/errors"
)

// errCancelRequested marks a job context cancelled by an
// explicit Cancel call, as opposed to a timeout or shutdown.
var errCancelRequested = errors.New("cancellation requested")

const defaultPollInterval = 2 * time.Second

// Config tunes a Scheduler.
type Config struct {
	Concurrency      int
	PollInterval     time.Duration
	ExecutionTimeout time.Duration
}

// Scheduler owns the admission queue and the worker pool.
// Submission never blocks the caller: a job is admitted by
// writing a pending record, and the dispatch loop claims
// pending jobs oldest first, one compare-and-set transition
// per dispatch.
type Scheduler struct {
	jobs     *job.Store
	results  *results.Store
	registry *registry.Registry
	engine   engine.Engine
	bus      event.Bus
	pool     *Pool

	pollInterval     time.Duration
	executionTimeout time.Duration

	wake chan struct{}

	mu            sync.Mutex
	running       map[uuid.UUID]context.CancelCauseFunc
	cancelIntents map[uuid.UUID]struct{}
}

func New(jobs *job.Store, res *results.Store, reg *registry.Registry, eng engine.Engine, bus event.Bus, cfg Config) *Scheduler {
	if jobs == nil || res == nil || reg == nil || eng == nil {
		panic("scheduler requires job store, results store, registry, and engine")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &Scheduler{
		jobs:             jobs,
		results:          res,
		registry:         reg,
		engine:           eng,
		bus:              bus,
		pool:             NewPool(cfg.Concurrency),
		pollInterval:     cfg.PollInterval,
		executionTimeout: cfg.ExecutionTimeout,
		wake:             make(chan struct{}, 1),
		running:          make(map[uuid.UUID]context.CancelCauseFunc),
		cancelIntents:    make(map[uuid.UUID]struct{}),
	}
}

// Submit validates a request and admits it as a pending job.
// Validation failures leave no job behind. Execution is
// asynchronous; the returned job is pending.
func (s *Scheduler) Submit(ctx context.Context, req *protocol.Request) (*models.Job, error) {
	if err := protocol.Validate(req, s.registry); err != nil {
		return nil, err
	}

	stimulus, err := json.Marshal(req.Stimulus)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode stimulus")
	}
	recordings, err := json.Marshal(req.Recordings)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode recordings")
	}
	conditions, err := json.Marshal(req.Conditions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode conditions")
	}

	j := &models.Job{
		ModelID:    req.ModelID,
		Stimulus:   stimulus,
		Recordings: recordings,
		Conditions: conditions,
	}

	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, err
	}

	metrics.SimulationsPending.Inc()
	s.publish(event.TypeJobSubmitted, j.ID)
	s.nudge()

	log.Info("simulation submitted", "job_id", j.ID, "model_id", j.ModelID)

	return j, nil
}

// Cancel cancels a job. Pending jobs transition directly to
// cancelled and are never dispatched. Running jobs have their
// context cancelled; the worker records the terminal status
// once the engine acknowledges. Terminal jobs fail with
// ErrConflict.
func (s *Scheduler) Cancel(ctx context.Context, id uuid.UUID) error {
	_, err := s.jobs.Transition(
		ctx, id, models.JobStatusPending, models.JobStatusCancelled, nil)
	if err == nil {
		metrics.SimulationsPending.Dec()
		metrics.SimulationsTotal.WithLabelValues(string(models.JobStatusCancelled)).Inc()
		s.publish(event.TypeJobCancelled, id)
		log.Info("pending simulation cancelled", "job_id", id)
		return nil
	}
	if !errors.Is(err, fault.ErrConflict) {
		return err
	}

	current, err := s.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != models.JobStatusRunning {
		return fault.Conflict("job %s is already %s", id, current.Status)
	}

	s.mu.Lock()
	cancel, ok := s.running[id]
	if !ok {
		// The dispatch loop has claimed the job but not yet
		// registered its cancel handle. Leave an intent behind
		// for track to honor the moment the handle appears.
		s.cancelIntents[id] = struct{}{}
	}
	s.mu.Unlock()

	if ok {
		cancel(errCancelRequested)
		log.Info("running simulation signalled to cancel", "job_id", id)
		return nil
	}

	// The handle may also be missing because the worker already
	// finished. Re-read the status so a terminal job reports a
	// conflict instead of accepting a cancel that can never land.
	current, err = s.jobs.Get(ctx, id)
	if err != nil || current.Status != models.JobStatusRunning {
		s.mu.Lock()
		delete(s.cancelIntents, id)
		s.mu.Unlock()
	}
	if err != nil {
		return err
	}
	if current.Status != models.JobStatusRunning {
		return fault.Conflict("job %s is already %s", id, current.Status)
	}

	log.Info("running simulation signalled to cancel", "job_id", id)

	return nil
}

// Run drives the dispatch loop until the context is done, then
// waits for in-flight executions to settle.
func (s *Scheduler) Run(ctx context.Context) error {
	s.restorePendingGauge(ctx)

	log.Info(
		"scheduler started",
		"concurrency", s.pool.Size(),
		"poll_interval", s.pollInterval,
	)

	for {
		if err := s.pool.Acquire(ctx); err != nil {
			s.pool.Wait()
			return nil
		}

		claimed, err := s.jobs.ClaimNext(ctx)
		if err != nil || claimed == nil {
			s.pool.Release()

			if ctx.Err() != nil {
				s.pool.Wait()
				return nil
			}
			if err != nil {
				log.Error("failed to claim next job", "error", err)
			}

			if sleepErr := s.sleep(ctx); sleepErr != nil {
				s.pool.Wait()
				return nil
			}
			continue
		}

		metrics.SimulationsPending.Dec()
		s.publish(event.TypeJobStarted, claimed.ID)

		j := claimed
		jctx, done := s.track(ctx, j.ID)

		s.pool.Go(func() {
			defer done()
			s.execute(jctx, j)
		})
	}
}

// track registers a cancel handle for a claimed job and returns
// the job context plus a cleanup to run when the worker settles.
// A cancel intent recorded between the claim transition and this
// registration is honored here, so the request cannot be lost in
// that window.
func (s *Scheduler) track(ctx context.Context, id uuid.UUID) (context.Context, func()) {
	jctx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	s.running[id] = cancel
	if _, ok := s.cancelIntents[id]; ok {
		delete(s.cancelIntents, id)
		cancel(errCancelRequested)
	}
	s.mu.Unlock()

	return jctx, func() {
		s.mu.Lock()
		delete(s.running, id)
		delete(s.cancelIntents, id)
		s.mu.Unlock()
		cancel(nil)
	}
}

// restorePendingGauge seeds the pending gauge from jobs persisted
// by a previous process, so claims after a restart do not drive
// it below zero.
func (s *Scheduler) restorePendingGauge(ctx context.Context) {
	pending, err := s.jobs.List(ctx, &job.ListRequest{Status: models.JobStatusPending})
	if err != nil {
		log.Error("failed to count pending jobs", "error", err)
		return
	}
	metrics.SimulationsPending.Set(float64(len(pending)))
}

func (s *Scheduler) execute(ctx context.Context, j *models.Job) {
	metrics.SimulationsRunning.Inc()
	defer metrics.SimulationsRunning.Dec()

	started := time.Now()

	output, err := s.run(ctx, j)

	switch {
	case err == nil:
		s.complete(j, output, started)
	case errors.Is(err, errCancelRequested):
		s.finish(j, models.JobStatusCancelled, "", started)
	case errors.Is(err, context.DeadlineExceeded):
		s.finish(j, models.JobStatusFailed,
			errors.Wrapf(fault.ErrTimeout, "exceeded %s", s.executionTimeout).Error(),
			started)
	case errors.Is(err, context.Canceled):
		s.finish(j, models.JobStatusFailed, "interrupted by shutdown", started)
	default:
		s.finish(j, models.JobStatusFailed,
			errors.Wrap(fault.ErrEngineFailure, err.Error()).Error(),
			started)
	}
}

// run decodes the job spec and invokes the engine under the
// configured execution timeout.
func (s *Scheduler) run(ctx context.Context, j *models.Job) (*engine.Output, error) {
	spec, err := s.runSpec(ctx, j)
	if err != nil {
		return nil, err
	}

	jctx := ctx
	if s.executionTimeout > 0 {
		var cancelTimeout context.CancelFunc
		jctx, cancelTimeout = context.WithTimeout(ctx, s.executionTimeout)
		defer cancelTimeout()
	}

	output, err := s.engine.Run(jctx, spec)
	if err != nil {
		if cause := context.Cause(jctx); cause != nil && jctx.Err() != nil {
			return nil, cause
		}
		return nil, err
	}

	return output, nil
}

func (s *Scheduler) runSpec(ctx context.Context, j *models.Job) (*engine.RunSpec, error) {
	_, artifact, err := s.registry.Artifact(ctx, j.ModelID)
	if err != nil {
		return nil, err
	}

	spec := &engine.RunSpec{Model: artifact}
	if err := json.Unmarshal(j.Stimulus, &spec.Stimulus); err != nil {
		return nil, errors.Wrap(err, "failed to decode stimulus")
	}
	if err := json.Unmarshal(j.Recordings, &spec.Recordings); err != nil {
		return nil, errors.Wrap(err, "failed to decode recordings")
	}
	if err := json.Unmarshal(j.Conditions, &spec.Conditions); err != nil {
		return nil, errors.Wrap(err, "failed to decode conditions")
	}

	return spec, nil
}

func (s *Scheduler) complete(j *models.Job, output *engine.Output, started time.Time) {
	var conditions protocol.Conditions
	if err := json.Unmarshal(j.Conditions, &conditions); err != nil {
		s.finish(j, models.JobStatusFailed,
			errors.Wrap(err, "failed to decode conditions").Error(), started)
		return
	}

	set := &results.ResultSet{
		JobID:      j.ID,
		Time:       output.Time,
		Series:     output.Series,
		Conditions: conditions,
	}

	if err := s.results.Put(j.ID, set); err != nil {
		s.finish(j, models.JobStatusFailed,
			errors.Wrap(err, "failed to store results").Error(), started)
		return
	}

	s.finish(j, models.JobStatusCompleted, "", started)
}

// finish records a terminal status reached from running.
func (s *Scheduler) finish(j *models.Job, status models.JobStatus, reason string, started time.Time) {
	var fields *job.TransitionFields
	if reason != "" {
		fields = &job.TransitionFields{Error: reason}
	}

	_, err := s.jobs.Transition(
		context.Background(), j.ID, models.JobStatusRunning, status, fields)
	if err != nil {
		log.Error(
			"failed to record terminal status",
			"job_id", j.ID, "status", status, "error", err)
		return
	}

	metrics.SimulationsTotal.WithLabelValues(string(status)).Inc()
	metrics.SimulationDurationSeconds.
		WithLabelValues(string(status)).
		Observe(time.Since(started).Seconds())

	switch status {
	case models.JobStatusCompleted:
		s.publish(event.TypeJobCompleted, j.ID)
		log.Info("simulation completed", "job_id", j.ID)
	case models.JobStatusFailed:
		s.publish(event.TypeJobFailed, j.ID)
		log.Warn("simulation failed", "job_id", j.ID, "reason", reason)
	case models.JobStatusCancelled:
		s.publish(event.TypeJobCancelled, j.ID)
		log.Info("simulation cancelled", "job_id", j.ID)
	}
}

func (s *Scheduler) publish(t event.Type, jobID uuid.UUID) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		Type:      t,
		JobID:     jobID,
		Timestamp: time.Now().UTC(),
	})
}

// nudge wakes the dispatch loop without waiting out the poll
// interval.
func (s *Scheduler) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) sleep(ctx context.Context) error {
	timer := time.NewTimer(s.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.wake:
		return nil
	case <-timer.C:
		return nil
	}
}
