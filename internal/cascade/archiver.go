// Package cascade archives the descendants of a trashed document in the background.
package cascade

import (
	"context"
	"errors"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/emrgen/notion/internal/model"
)

var (
	ErrClosed = errors.New("archiver closed")
)

// Store is the part of the document store a cascade needs.
type Store interface {
	ListChildDocuments(ctx context.Context, ownerID string, parentID *uuid.UUID) ([]*model.Document, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Document, error)
}

// Observer is called with every descendant the cascade archived.
type Observer func(ctx context.Context, doc *model.Document)

type Option func(*Archiver)

func WithObserver(o Observer) Option {
	return func(a *Archiver) {
		a.observer = o
	}
}

type ownerLock struct {
	ch   chan struct{}
	refs int
}

// Archiver runs cascades on their own goroutines. Cascades of one owner run one at a time.
type Archiver struct {
	store    Store
	observer Observer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	handles map[uuid.UUID]*Handle
	owners  map[string]*ownerLock
}

func NewArchiver(store Store, opts ...Option) *Archiver {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Archiver{
		store:    store,
		observer: func(context.Context, *model.Document) {},
		ctx:      ctx,
		cancel:   cancel,
		handles:  make(map[uuid.UUID]*Handle),
		owners:   make(map[string]*ownerLock),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Enqueue starts archiving the descendants of rootID. The cascade outlives ctx
// but keeps its values, and stops when the archiver is closed.
func (a *Archiver) Enqueue(ctx context.Context, ownerID string, rootID uuid.UUID) *Handle {
	h := newHandle(ownerID, rootID)

	a.mu.Lock()
	a.handles[h.ID()] = h
	closed := a.ctx.Err() != nil
	if !closed {
		a.wg.Add(1)
	}
	a.mu.Unlock()

	if closed {
		h.fail(rootID, ErrClosed)
		h.finish()
		return h
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(a.ctx, cancel)

	go func() {
		defer a.wg.Done()
		defer cancel()
		defer stop()

		a.run(runCtx, h)
	}()

	return h
}

func (a *Archiver) run(ctx context.Context, h *Handle) {
	defer h.finish()

	ownerID, rootID := h.OwnerID(), h.report.RootID
	if err := a.lock(ctx, ownerID); err != nil {
		h.fail(rootID, err)
		return
	}
	defer a.unlock(ownerID)

	logrus.Debugf("cascade %s: archiving descendants of %s", h.ID(), rootID)

	visited := mapset.NewThreadUnsafeSet[uuid.UUID](rootID)
	stack := []uuid.UUID{rootID}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			h.fail(stack[len(stack)-1], err)
			return
		}

		parentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := a.store.ListChildDocuments(ctx, ownerID, &parentID)
		if err != nil {
			logrus.Errorf("cascade %s: list children of %s: %v", h.ID(), parentID, err)
			h.fail(parentID, err)
			continue
		}

		for _, child := range children {
			id := child.UUID()
			if !visited.Add(id) {
				continue
			}
			h.visited()

			if !child.IsArchived {
				patched, err := a.store.UpdateDocument(ctx, id, map[string]any{"is_archived": true})
				if err != nil {
					logrus.Errorf("cascade %s: archive %s: %v", h.ID(), id, err)
					h.fail(id, err)
					continue
				}
				h.archived()
				a.observer(ctx, patched)
			}

			stack = append(stack, id)
		}
	}
}

func (a *Archiver) lock(ctx context.Context, ownerID string) error {
	a.mu.Lock()
	l, ok := a.owners[ownerID]
	if !ok {
		l = &ownerLock{ch: make(chan struct{}, 1)}
		a.owners[ownerID] = l
	}
	l.refs++
	a.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		a.release(ownerID, l)
		return ctx.Err()
	}
}

func (a *Archiver) unlock(ownerID string) {
	a.mu.Lock()
	l := a.owners[ownerID]
	a.mu.Unlock()

	<-l.ch
	a.release(ownerID, l)
}

func (a *Archiver) release(ownerID string, l *ownerLock) {
	a.mu.Lock()
	defer a.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(a.owners, ownerID)
	}
}

// Get returns the handle of a cascade that has not been evicted yet.
func (a *Archiver) Get(id uuid.UUID) (*Handle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	h, ok := a.handles[id]
	return h, ok
}

// Evict forgets cascades that finished more than retention ago and returns how many were removed.
func (a *Archiver) Evict(retention time.Duration) int {
	cutoff := time.Now().Add(-retention)

	a.mu.Lock()
	defer a.mu.Unlock()

	evicted := 0
	for id, h := range a.handles {
		if h.finishedBefore(cutoff) {
			delete(a.handles, id)
			evicted++
		}
	}

	return evicted
}

// Close cancels running cascades and waits for them to stop.
func (a *Archiver) Close() error {
	a.mu.Lock()
	a.cancel()
	a.mu.Unlock()

	a.wg.Wait()

	return nil
}
