// Package scheduler wakes once per day at a configured HH:MM and triggers
// the send workflow.
package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

type Scheduler struct {
	s   *gocron.Scheduler
	job *gocron.Job
}

func New() *Scheduler {
	return &Scheduler{s: gocron.NewScheduler(time.Local)}
}

// Schedule registers the daily job. at is "HH:MM" local time.
func (sc *Scheduler) Schedule(at string, task func()) error {
	job, err := sc.s.Every(1).Day().At(at).Do(func() {
		log.Printf("level=info msg=\"scheduled run starting\" at=%s", at)
		task()
	})
	if err != nil {
		return err
	}
	sc.job = job
	return nil
}

// StartBlocking runs the scheduler loop in the current goroutine.
func (sc *Scheduler) StartBlocking() {
	sc.s.StartBlocking()
}

// StartAsync runs the loop in the background (used alongside the web form).
func (sc *Scheduler) StartAsync() {
	sc.s.StartAsync()
}

func (sc *Scheduler) Stop() {
	sc.s.Stop()
}

// NextRun reports when the daily job fires next; zero time when nothing is
// scheduled.
func (sc *Scheduler) NextRun() time.Time {
	if sc.job == nil {
		return time.Time{}
	}
	return sc.job.NextRun()
}
