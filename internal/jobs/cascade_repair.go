package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/notion/internal/cascade"
	"github.com/emrgen/notion/internal/model"
)

type archivedParentLister interface {
	ListArchivedParents(ctx context.Context, limit int) ([]*model.Document, error)
}

var _ CronJob = (*CascadeRepairTask)(nil)

// CascadeRepairTask restarts cascades for archived documents that still have active children.
// Those are left behind by cascades cut short by a shutdown or a failed patch, and by
// documents created under a parent that was already in the trash.
type CascadeRepairTask struct {
	store    archivedParentLister
	archiver *cascade.Archiver
	cron     string
	batch    int
	timeout  time.Duration
}

func NewCascadeRepairTask(schedule string, store archivedParentLister, archiver *cascade.Archiver) *CascadeRepairTask {
	return &CascadeRepairTask{
		store:    store,
		archiver: archiver,
		cron:     schedule,
		batch:    100,
		timeout:  time.Minute,
	}
}

func (c *CascadeRepairTask) Schedule() string {
	return c.cron
}

func (c *CascadeRepairTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	parents, err := c.store.ListArchivedParents(ctx, c.batch)
	if err != nil {
		logrus.Errorf("cascade repair: %v", err)
		return
	}
	if len(parents) == 0 {
		return
	}

	handles := make([]*cascade.Handle, 0, len(parents))
	for _, parent := range parents {
		handles = append(handles, c.archiver.Enqueue(ctx, parent.OwnerID, parent.UUID()))
	}

	archived := 0
	for _, h := range handles {
		report, err := h.Wait(ctx)
		if err != nil {
			logrus.Warnf("cascade repair: %d cascades still running: %v", len(handles), err)
			return
		}
		archived += report.Archived
	}
	logrus.Infof("cascade repair: %d documents archived under %d trashed parents", archived, len(parents))
}
