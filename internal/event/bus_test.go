package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()

	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := New()

	ch, err := b.Subscribe(ctx, Filter{})
	assert.Nil(t, err)

	id := uuid.New()
	b.Publish(Event{Type: TypeJobSubmitted, JobID: id})

	e := receive(t, ch)
	assert.Equal(t, TypeJobSubmitted, e.Type)
	assert.Equal(t, id, e.JobID)
}

func TestFilterByJobID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := New()
	want := uuid.New()

	ch, err := b.Subscribe(ctx, Filter{JobID: want})
	assert.Nil(t, err)

	b.Publish(Event{Type: TypeJobStarted, JobID: uuid.New()})
	b.Publish(Event{Type: TypeJobStarted, JobID: want})

	e := receive(t, ch)
	assert.Equal(t, want, e.JobID)
	assert.Empty(t, ch)
}

func TestFilterByType(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := New()

	ch, err := b.Subscribe(ctx, Filter{Types: []Type{TypeJobCompleted, TypeJobFailed}})
	assert.Nil(t, err)

	b.Publish(Event{Type: TypeJobSubmitted})
	b.Publish(Event{Type: TypeJobFailed})

	e := receive(t, ch)
	assert.Equal(t, TypeJobFailed, e.Type)
	assert.Empty(t, ch)
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	b := New()

	ch, err := b.Subscribe(ctx, Filter{})
	assert.Nil(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel never closed")
	}
}
