package results

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/stretchr/testify/assert"
)

func testSet(jobID uuid.UUID) *ResultSet {
	return &ResultSet{
		JobID:  jobID,
		Time:   []float64{0, 0.025, 0.05},
		Series: [][]float64{{-65, -64.9, -64.8}},
		Conditions: protocol.Conditions{
			Duration: 1000,
			Dt:       0.025,
			VInit:    -65,
			Celsius:  34,
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	jobID := uuid.New()

	assert.Nil(t, store.Put(jobID, testSet(jobID)))

	got, err := store.Get(jobID)
	assert.Nil(t, err)

	if diff := cmp.Diff(testSet(jobID), got); diff != "" {
		t.Fatalf("result set mismatch (-want +got):\n%s", diff)
	}
}

func TestPutWriteOnce(t *testing.T) {
	store := NewStore(t.TempDir())
	jobID := uuid.New()

	assert.Nil(t, store.Put(jobID, testSet(jobID)))
	assert.ErrorIs(t, store.Put(jobID, testSet(jobID)), fault.ErrConflict)
}

func TestGetUnknown(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := NewStore(t.TempDir())
	jobID := uuid.New()

	assert.Nil(t, store.Delete(jobID)) // absent is fine

	assert.Nil(t, store.Put(jobID, testSet(jobID)))
	assert.Nil(t, store.Delete(jobID))

	_, err := store.Get(jobID)
	assert.ErrorIs(t, err, fault.ErrNotFound)

	// write-once resets with the directory
	assert.Nil(t, store.Put(jobID, testSet(jobID)))
}
