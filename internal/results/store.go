// Package results persists completed simulation output, one
// directory per job under the results root.
package results

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/pkg/errors"
)

const resultFile = "result.json"

// ResultSet is the immutable output of a completed job. Series
// are indexed by recording position in the submitted request;
// Series[i][j] is the value of recording i at Time[j].
type ResultSet struct {
	JobID      uuid.UUID           `json:"job_id"`
	Time       []float64           `json:"time"`
	Series     [][]float64         `json:"series"`
	Conditions protocol.Conditions `json:"conditions"`
}

// Store writes and serves result sets. Writes are once-only: a
// result directory that already holds a result file rejects any
// further put.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Put persists a result set for a job. Fails with ErrConflict
// if one already exists.
func (s *Store) Put(jobID uuid.UUID, set *ResultSet) error {
	dir := filepath.Join(s.root, jobID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create result directory")
	}

	raw, err := json.Marshal(set)
	if err != nil {
		return errors.Wrap(err, "failed to encode result set")
	}

	// O_EXCL makes the write-once check atomic against a
	// concurrent put for the same job.
	f, err := os.OpenFile(
		filepath.Join(dir, resultFile),
		os.O_WRONLY|os.O_CREATE|os.O_EXCL,
		0o644,
	)
	if os.IsExist(err) {
		return fault.Conflict("results already stored for job %s", jobID)
	}
	if err != nil {
		return errors.Wrap(err, "failed to create result file")
	}

	if _, err := f.Write(raw); err != nil {
		f.Close()
		return errors.Wrap(err, "failed to write result set")
	}

	return f.Close()
}

// Get returns the stored result set for a job, or ErrNotFound
// when none exists.
func (s *Store) Get(jobID uuid.UUID) (*ResultSet, error) {
	raw, err := os.ReadFile(filepath.Join(s.root, jobID.String(), resultFile))
	if os.IsNotExist(err) {
		return nil, fault.NotFound("results for job", jobID.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read result set")
	}

	set := &ResultSet{}
	if err := json.Unmarshal(raw, set); err != nil {
		return nil, errors.Wrap(err, "failed to decode result set")
	}

	return set, nil
}

// Delete removes a job's result directory. Used by the
// retention sweep; missing results are not an error.
func (s *Store) Delete(jobID uuid.UUID) error {
	return os.RemoveAll(filepath.Join(s.root, jobID.String()))
}
