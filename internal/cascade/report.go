package cascade

import (
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
)

// Failure is a document the cascade could not process. Its subtree was skipped.
type Failure struct {
	DocumentID uuid.UUID
	Err        error
}

// Report is a snapshot of a cascade.
type Report struct {
	ID         uuid.UUID
	OwnerID    string
	RootID     uuid.UUID
	State      State
	Visited    int // descendants examined
	Archived   int // descendants patched by this cascade
	Failures   []Failure
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r *Report) Finished() bool {
	return r.State != StateRunning
}

func (r *Report) clone() *Report {
	c := *r
	c.Failures = append([]Failure(nil), r.Failures...)
	return &c
}
