package utils

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// NewScheduler returns a cron scheduler that logs through log and recovers
// from panicking jobs. Callers register jobs, then Start it.
func NewScheduler(log *logrus.Entry) *cron.Cron {
	logger := cron.PrintfLogger(log)
	return cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
}

// SchedulePurge removes expired sessions on the given cron schedule.
func SchedulePurge(c *cron.Cron, spec string, sessions *SessionManager, log *logrus.Entry) error {
	_, err := c.AddFunc(spec, func() {
		if n := sessions.PurgeExpired(); n > 0 {
			log.WithField("removed", n).Info("purged expired sessions")
		}
	})
	return err
}
