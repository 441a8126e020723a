package cascade

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handle tracks a single enqueued cascade.
type Handle struct {
	done chan struct{}

	mu     sync.Mutex
	report Report
}

func newHandle(ownerID string, rootID uuid.UUID) *Handle {
	return &Handle{
		done: make(chan struct{}),
		report: Report{
			ID:        uuid.New(),
			OwnerID:   ownerID,
			RootID:    rootID,
			State:     StateRunning,
			StartedAt: time.Now(),
		},
	}
}

func (h *Handle) ID() uuid.UUID {
	return h.report.ID
}

func (h *Handle) OwnerID() string {
	return h.report.OwnerID
}

// Done is closed once the cascade settles.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the cascade settles or ctx is done.
func (h *Handle) Wait(ctx context.Context) (*Report, error) {
	select {
	case <-h.done:
		return h.Status(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Status returns the current progress of the cascade.
func (h *Handle) Status() *Report {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.report.clone()
}

func (h *Handle) visited() {
	h.mu.Lock()
	h.report.Visited++
	h.mu.Unlock()
}

func (h *Handle) archived() {
	h.mu.Lock()
	h.report.Archived++
	h.mu.Unlock()
}

func (h *Handle) fail(id uuid.UUID, err error) {
	h.mu.Lock()
	h.report.Failures = append(h.report.Failures, Failure{DocumentID: id, Err: err})
	h.mu.Unlock()
}

func (h *Handle) finish() {
	h.mu.Lock()
	h.report.FinishedAt = time.Now()
	if len(h.report.Failures) > 0 {
		h.report.State = StateFailed
	} else {
		h.report.State = StateCompleted
	}
	h.mu.Unlock()

	close(h.done)
}

func (h *Handle) finishedBefore(t time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.report.Finished() && h.report.FinishedAt.Before(t)
}
