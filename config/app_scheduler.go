package config

import (
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/robfig/cron"
)

// NewScheduler returns a stopped scheduler; domains register jobs before Start.
func NewScheduler() *cron.Cron {
	return cron.New()
}

// ScheduleJob registers fn under a cron spec such as "@every 15m".
func ScheduleJob(scheduler *cron.Cron, logger *log.Logger, name, spec string, fn func()) error {
	if err := scheduler.AddFunc(spec, fn); err != nil {
		logger.Error("Failed to schedule job", "job", name, "spec", spec, "error", err)
		return err
	}

	logger.Info("Job scheduled", "job", name, "spec", spec)
	return nil
}
