package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc is the job executed on each tick.
type RunFunc func(ctx context.Context) error

// Scheduler fires the full detection sweep on a cron expression.
type Scheduler struct {
	schedule cron.Schedule
	run      RunFunc
}

// New parses a standard 5-field cron expression. An empty expression returns
// (nil, nil): scheduling disabled.
func New(expr string, run RunFunc) (*Scheduler, error) {
	if expr == "" {
		return nil, nil
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &Scheduler{schedule: schedule, run: run}, nil
}

// Start blocks until ctx is done, sleeping until each scheduled time and
// running the job. Run it in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		started := time.Now()
		if err := s.run(ctx); err != nil {
			log.Printf("scheduled audit sweep failed: %v", err)
			continue
		}
		log.Printf("scheduled audit sweep completed in %s", time.Since(started).Round(time.Millisecond))
	}
}
