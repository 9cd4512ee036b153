package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule holds the cron expressions of the periodic jobs.
type Schedule struct {
	CompleteExpiredLocations string
	PurgeReadNotifications   string
}

func DefaultSchedule() Schedule {
	return Schedule{
		CompleteExpiredLocations: "15 2 * * *",
		PurgeReadNotifications:   "45 3 * * 0",
	}
}

// Runner wires the periodic jobs into a cron scheduler.
type Runner struct {
	cron *cron.Cron
}

func NewRunner(locations *LocationJobs, notifs *NotificationJobs, sched Schedule) (*Runner, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(sched.CompleteExpiredLocations, locations.CompleteExpired); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(sched.PurgeReadNotifications, notifs.PurgeRead); err != nil {
		return nil, err
	}

	return &Runner{cron: c}, nil
}

func (r *Runner) Start() {
	log.Println("starting job scheduler")
	r.cron.Start()
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	log.Println("job scheduler stopped")
}

// runWithRecovery keeps a panicking job from taking down the scheduler.
func runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("job %s panicked: %v", jobName, rec)
		}
	}()

	start := time.Now()
	log.Printf("job %s started", jobName)
	jobFunc()
	log.Printf("job %s finished in %s", jobName, time.Since(start).Round(time.Millisecond))
}
