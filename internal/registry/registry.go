// Package registry tracks uploaded simulation model artifacts.
package registry

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/neurosim-cloud/neurosim/internal/models"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const artifactFile = "model.yaml"

// JobCounter answers how many non-terminal jobs reference a
// model. The job store satisfies it; the registry uses it to
// guard deletes.
type JobCounter interface {
	CountActive(ctx context.Context, modelID string) (int64, error)
}

// Registry stores model artifacts one directory per model under
// the configured root, with a metadata row per model.
type Registry struct {
	db   *gorm.DB
	root string
	jobs JobCounter
}

func New(db *gorm.DB, root string, jobs JobCounter) *Registry {
	if db == nil {
		panic("registry requires database")
	}
	return &Registry{db: db, root: root, jobs: jobs}
}

// Register validates artifact bytes, stores them, and returns
// the assigned model. Fails with ErrInvalidArtifact when the
// structural checks fail.
func (r *Registry) Register(ctx context.Context, raw []byte) (*models.Model, error) {
	artifact, err := ParseArtifact(raw)
	if err != nil {
		return nil, err
	}

	var (
		id  = uuid.NewString()
		dir = filepath.Join(r.root, id)
	)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create model directory")
	}

	path := filepath.Join(dir, artifactFile)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, errors.Wrap(err, "failed to store model artifact")
	}

	model := &models.Model{
		ID:         id,
		Name:       artifact.Name,
		Path:       dir,
		UploadedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "failed to record model")
	}

	return model, nil
}

// Get returns the model with the given id.
func (r *Registry) Get(ctx context.Context, id string) (*models.Model, error) {
	model := &models.Model{}

	err := r.db.WithContext(ctx).First(model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.NotFound("model", id)
	}
	if err != nil {
		return nil, err
	}

	return model, nil
}

// Exists reports whether a model is registered. Satisfies
// protocol.ModelLookup.
func (r *Registry) Exists(id string) (bool, error) {
	var count int64

	err := r.db.Model(&models.Model{}).
		Where("id = ?", id).
		Count(&count).Error

	return count > 0, err
}

// List returns every registered model ordered by upload time.
func (r *Registry) List(ctx context.Context) (models.Models, error) {
	all := make(models.Models, 0)

	err := r.db.WithContext(ctx).
		Order("uploaded_at ASC").
		Find(&all).Error

	return all, err
}

// Artifact returns the stored artifact bytes for a model.
func (r *Registry) Artifact(ctx context.Context, id string) ([]byte, *Artifact, error) {
	model, err := r.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	raw, err := os.ReadFile(filepath.Join(model.Path, artifactFile))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read model artifact")
	}

	parsed, err := ParseArtifact(raw)
	if err != nil {
		return nil, nil, err
	}

	return raw, parsed, nil
}

// Delete removes a model and its stored artifact. Fails with
// ErrConflict while any pending or running job references it.
func (r *Registry) Delete(ctx context.Context, id string) error {
	model, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if r.jobs != nil {
		active, err := r.jobs.CountActive(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to count referencing jobs")
		}
		if active > 0 {
			return fault.Conflict(
				"model %s is referenced by %d active jobs", id, active)
		}
	}

	if err := r.db.WithContext(ctx).Delete(model).Error; err != nil {
		return errors.Wrap(err, "failed to delete model")
	}

	if err := os.RemoveAll(model.Path); err != nil {
		return errors.Wrap(err, "failed to remove model artifact")
	}

	return nil
}
