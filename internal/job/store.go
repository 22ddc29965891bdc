// Package job implements the authoritative store of simulation
// job records and their state machine.
package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neurosim-cloud/neurosim/internal/metrics"
	"github.com/neurosim-cloud/neurosim/internal/models"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store is the transactional table of job records. All status
// mutation goes through Transition, an atomic compare-and-set
// expressed as a guarded UPDATE.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	if db == nil {
		panic("job store requires database")
	}
	return &Store{db: db}
}

// Create inserts a new job record. The job must be pending.
func (s *Store) Create(ctx context.Context, j *models.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = models.JobStatusPending
	}
	if j.Status != models.JobStatusPending {
		return fault.Conflict("job %s created with status %s", j.ID, j.Status)
	}
	j.CreatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Create(j).Error; err != nil {
		return errors.Wrap(err, "failed to create job")
	}

	return nil
}

// Get returns the job with the given id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	j := &models.Job{}

	err := s.db.WithContext(ctx).First(j, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("job", id.String())
	}
	if err != nil {
		return nil, err
	}

	return j, nil
}

// ListRequest filters List results.
type ListRequest struct {
	Status  models.JobStatus
	ModelID string
	Limit   int
	Offset  int
}

// List returns jobs in submission order, oldest first.
func (s *Store) List(ctx context.Context, req *ListRequest) (models.Jobs, error) {
	var (
		jobs = make(models.Jobs, 0)
		q    = s.db.WithContext(ctx).Order("seq ASC")
	)

	if req != nil {
		if req.Status != "" {
			q = q.Where("status = ?", req.Status)
		}
		if req.ModelID != "" {
			q = q.Where("model_id = ?", req.ModelID)
		}
		if req.Limit > 0 {
			q = q.Limit(req.Limit)
		}
		if req.Offset > 0 {
			q = q.Offset(req.Offset)
		}
	}

	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}

	return jobs, nil
}

// TransitionFields carries the optional fields set alongside a
// status change. Timestamps are set exactly once by the store.
type TransitionFields struct {
	Error string
}

// Transition atomically moves a job from one status to another.
// The edge must be legal in the state machine and the job must
// currently hold the from status, otherwise ErrConflict. A
// second transition attempt with the same from status loses the
// compare-and-set and also fails with ErrConflict, which is
// what guarantees at-most-once dispatch.
func (s *Store) Transition(ctx context.Context, id uuid.UUID, from, to models.JobStatus, fields *TransitionFields) (*models.Job, error) {
	if !models.CanTransition(from, to) {
		return nil, fault.Conflict("illegal transition %s -> %s", from, to)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{"status": to}

	if to == models.JobStatusRunning {
		updates["started_at"] = now
	}
	if to.Terminal() {
		updates["finished_at"] = now
	}
	if to == models.JobStatusFailed && fields != nil && fields.Error != "" {
		updates["error"] = fields.Error
	}

	result := s.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to transition job")
	}

	if result.RowsAffected == 0 {
		// Lost the compare-and-set, or the job never existed.
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fault.Conflict(
			"job %s is %s, expected %s", id, current.Status, from)
	}

	return s.Get(ctx, id)
}

// ClaimNext claims the oldest pending job by transitioning it
// to running, or returns nil when none are pending. Claim order
// is submission order; a lost race on one candidate falls
// through to the next.
func (s *Store) ClaimNext(ctx context.Context) (*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates models.Jobs
	err := s.db.WithContext(ctx).
		Where("status = ?", models.JobStatusPending).
		Order("seq ASC").
		Limit(16).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		claimed, err := s.Transition(
			ctx,
			candidate.ID,
			models.JobStatusPending,
			models.JobStatusRunning,
			nil,
		)
		if errors.Is(err, fault.ErrConflict) || errors.Is(err, fault.ErrNotFound) {
			// Another worker won, or the job was cancelled
			// or swept between the read and the claim.
			metrics.ClaimContentionTotal.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		return claimed, nil
	}

	return nil, nil
}

// CountActive returns the number of jobs referencing a model
// that are not in a terminal state.
func (s *Store) CountActive(ctx context.Context, modelID string) (int64, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&models.Job{}).
		Where(
			"model_id = ? AND status IN ?",
			modelID,
			[]models.JobStatus{models.JobStatusPending, models.JobStatusRunning},
		).
		Count(&count).Error

	return count, err
}

// SweepTerminal deletes terminal jobs that finished before the
// cutoff and returns their ids so callers can drop associated
// results.
func (s *Store) SweepTerminal(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var victims models.Jobs

	err := s.db.WithContext(ctx).
		Where(
			"status IN ? AND finished_at < ?",
			[]models.JobStatus{
				models.JobStatusCompleted,
				models.JobStatusFailed,
				models.JobStatusCancelled,
			},
			cutoff,
		).
		Find(&victims).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(victims))
	for _, j := range victims {
		if err := s.db.WithContext(ctx).Delete(j).Error; err != nil {
			return ids, err
		}
		ids = append(ids, j.ID)
	}

	return ids, nil
}
