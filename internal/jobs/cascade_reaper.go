package jobs

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/notion/internal/cascade"
)

var _ CronJob = (*CascadeReaperTask)(nil)

// CascadeReaperTask forgets finished cascades once they are older than the retention.
type CascadeReaperTask struct {
	archiver  *cascade.Archiver
	cron      string
	retention time.Duration
}

func NewCascadeReaperTask(schedule string, retention time.Duration, archiver *cascade.Archiver) *CascadeReaperTask {
	return &CascadeReaperTask{
		archiver:  archiver,
		cron:      schedule,
		retention: retention,
	}
}

func (c *CascadeReaperTask) Schedule() string {
	return c.cron
}

func (c *CascadeReaperTask) Run() {
	if n := c.archiver.Evict(c.retention); n > 0 {
		logrus.Debugf("evicted %d finished cascades", n)
	}
}
