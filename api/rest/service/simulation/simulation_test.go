package simulation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/neurosim-cloud/neurosim/internal/engine"
	"github.com/neurosim-cloud/neurosim/internal/job"
	"github.com/neurosim-cloud/neurosim/internal/models"
	"github.com/neurosim-cloud/neurosim/internal/protocol"
	"github.com/neurosim-cloud/neurosim/internal/registry"
	"github.com/neurosim-cloud/neurosim/internal/results"
	"github.com/neurosim-cloud/neurosim/internal/scheduler"
	"github.com/neurosim-cloud/neurosim/internal/testutil"
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/stretchr/testify/assert"
)

const simpleNeuron = `name: simple_neuron
sections:
  - name: soma
`

type fixture struct {
	svc     *Service
	jobs    *job.Store
	results *results.Store
	modelID string
}

// newFixture wires the service over real stores. The scheduler
// is not running, so submitted jobs stay pending.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.DB(t)
	jobs := job.NewStore(db)
	res := results.NewStore(t.TempDir())
	reg := registry.New(db, t.TempDir(), jobs)

	m, err := reg.Register(context.Background(), []byte(simpleNeuron))
	if err != nil {
		t.Fatalf("failed to register model: %v", err)
	}

	sched := scheduler.New(jobs, res, reg, engine.NewAnalytic(), nil, scheduler.Config{
		Concurrency: 1,
	})

	return &fixture{
		svc:     New(jobs, res, sched),
		jobs:    jobs,
		results: res,
		modelID: m.ID,
	}
}

func (f *fixture) request() *protocol.Request {
	return &protocol.Request{
		ModelID: f.modelID,
		Stimulus: protocol.Stimulus{
			Kind:      protocol.StimulusIClamp,
			Delay:     100,
			Duration:  500,
			Amplitude: 0.5,
		},
		Recordings: []protocol.Recording{{Section: "soma", Variable: "v"}},
		Conditions: protocol.Conditions{
			Duration: 1000,
			Dt:       0.025,
			VInit:    -65,
			Celsius:  34,
		},
	}
}

func TestSubmitAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	j, err := f.svc.Submit(ctx, f.request())
	assert.Nil(t, err)
	assert.Equal(t, models.JobStatusPending, j.Status)

	got, err := f.svc.Get(ctx, j.ID)
	assert.Nil(t, err)
	assert.Equal(t, j.ID, got.ID)
}

func TestSubmitRejectsInvalidRequest(t *testing.T) {
	f := newFixture(t)

	req := f.request()
	req.Recordings = nil

	_, err := f.svc.Submit(context.Background(), req)
	var verr *fault.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.Submit(ctx, f.request())
	assert.Nil(t, err)
	_, err = f.svc.Submit(ctx, f.request())
	assert.Nil(t, err)

	assert.Nil(t, f.svc.Cancel(ctx, first.ID))

	pending, err := f.svc.List(ctx, &ListRequest{Status: models.JobStatusPending})
	assert.Nil(t, err)
	assert.Len(t, pending, 1)

	all, err := f.svc.List(ctx, nil)
	assert.Nil(t, err)
	assert.Len(t, all, 2)
}

func TestResultsDistinguishesMissingJob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// unknown job id
	_, err := f.svc.Results(ctx, uuid.New())
	assert.ErrorIs(t, err, fault.ErrNotFound)

	// known job, no results yet
	j, err := f.svc.Submit(ctx, f.request())
	assert.Nil(t, err)

	_, err = f.svc.Results(ctx, j.ID)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

func TestResultsReturnsStoredSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	j, err := f.svc.Submit(ctx, f.request())
	assert.Nil(t, err)

	set := &results.ResultSet{
		JobID:  j.ID,
		Time:   []float64{0, 0.025},
		Series: [][]float64{{-65, -64.9}},
	}
	assert.Nil(t, f.results.Put(j.ID, set))

	got, err := f.svc.Results(ctx, j.ID)
	assert.Nil(t, err)
	assert.Equal(t, set.Time, got.Time)
	assert.Equal(t, set.Series, got.Series)
}

func TestCancelPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	j, err := f.svc.Submit(ctx, f.request())
	assert.Nil(t, err)

	assert.Nil(t, f.svc.Cancel(ctx, j.ID))

	got, err := f.svc.Get(ctx, j.ID)
	assert.Nil(t, err)
	assert.Equal(t, models.JobStatusCancelled, got.Status)
}
