package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JobStatus enumerates the lifecycle states of a simulation job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether no further transitions are legal
// out of the status.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

var legalTransitions = map[JobStatus][]JobStatus{
	JobStatusPending: {JobStatusRunning, JobStatusCancelled},
	JobStatusRunning: {JobStatusCompleted, JobStatusFailed, JobStatusCancelled},
}

// CanTransition reports whether from -> to is a legal edge of
// the job state machine.
func CanTransition(from, to JobStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Job is one accepted request to run a simulation. The job
// store owns every record; status mutation goes through its
// compare-and-set Transition, never through direct writes.
type Job struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Seq        int64          `gorm:"autoIncrement;uniqueIndex" json:"-"`
	ModelID    string         `gorm:"type:text;index;not null" json:"model_id"`
	Stimulus   datatypes.JSON `gorm:"type:json;not null" json:"stimulus"`
	Recordings datatypes.JSON `gorm:"type:json;not null" json:"recordings"`
	Conditions datatypes.JSON `gorm:"type:json;not null" json:"conditions"`
	Status     JobStatus      `gorm:"type:text;index;not null" json:"status"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

type Jobs []*Job
