package jobs

import (
	"time"

	"minerva_app_go/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReminderSchedule runs the reminder job at the top of every hour
const ReminderSchedule = "0 * * * *"

// StartScheduler starts the background jobs and returns the running cron so
// the caller can stop it on shutdown
func StartScheduler(database *gorm.DB, cfg *config.Config) (*cron.Cron, error) {
	loc, err := time.LoadLocation("America/El_Salvador")
	if err != nil {
		loc = time.FixedZone("CST", -6*60*60)
	}
	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc(ReminderSchedule, func() {
		SendDeadlineReminders(database, cfg)
	}); err != nil {
		return nil, err
	}

	c.Start()
	zap.L().Info("[CRON] Scheduler started", zap.String("reminders", ReminderSchedule))
	return c, nil
}
