package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs jobs on the cron. A job is skipped while its previous run is still active.
type TaskExecutor struct {
	cron            *cron.Cron
	jobs            []Job
	cronJobs        []CronJob
	runningJobs     mapset.Set[Job]
	runningCronJobs mapset.Set[CronJob]
	muJobs          sync.Mutex
	muCronJobs      sync.Mutex
}

func NewTaskExecutor(jobs []Job, cronJobs []CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:            cron.New(),
		jobs:            jobs,
		cronJobs:        cronJobs,
		runningCronJobs: mapset.NewThreadUnsafeSet[CronJob](),
		runningJobs:     mapset.NewThreadUnsafeSet[Job](),
	}
}

// Run the jobs in its own goroutine inside the cron.
func (t *TaskExecutor) Run() error {
	for _, job := range t.cronJobs {
		err := t.cron.AddFunc(job.Schedule(), func() {
			t.runCronJob(job)
		})
		if err != nil {
			logrus.Errorf("failed to add task to cron: %v", err)
			return err
		}
	}

	for _, job := range t.jobs {
		if err := t.cron.AddFunc("@every 1s", func() { t.runJob(job) }); err != nil {
			return err
		}
	}

	t.cron.Start()
	return nil
}

// runCronJob runs job unless it is already running and reports whether it ran.
func (t *TaskExecutor) runCronJob(job CronJob) bool {
	t.muCronJobs.Lock()
	if t.runningCronJobs.Contains(job) {
		t.muCronJobs.Unlock()
		logrus.Warnf("task %T is already running", job)
		return false
	}
	t.runningCronJobs.Add(job)
	t.muCronJobs.Unlock()

	defer func() {
		t.muCronJobs.Lock()
		defer t.muCronJobs.Unlock()
		t.runningCronJobs.Remove(job)
	}()

	job.Run()
	return true
}

func (t *TaskExecutor) runJob(job Job) bool {
	t.muJobs.Lock()
	if t.runningJobs.Contains(job) {
		t.muJobs.Unlock()
		logrus.Warnf("task %T is already running", job)
		return false
	}
	t.runningJobs.Add(job)
	t.muJobs.Unlock()

	defer func() {
		t.muJobs.Lock()
		defer t.muJobs.Unlock()
		t.runningJobs.Remove(job)
	}()

	job.Run()
	return true
}

func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.cron.Stop()
}
