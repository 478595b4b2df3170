package jobs

import (
	"time"

	"minerva_app_go/config"
	"minerva_app_go/models"
	"minerva_app_go/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// reminderLang is the language of reminder emails; deadlines do not carry one
const reminderLang = "es"

// reminderWindow is how far ahead of the due date reminders go out
const reminderWindow = 24 * time.Hour

// SendDeadlineReminders emails the owners of deadlines falling due today or
// tomorrow (El Salvador time) and marks each one so it is only reminded once
func SendDeadlineReminders(database *gorm.DB, cfg *config.Config) int {
	return sendDeadlineReminders(database, cfg, services.LocalNow())
}

func sendDeadlineReminders(database *gorm.DB, cfg *config.Config, now time.Time) int {
	log := zap.L().With(zap.String("job", "deadline_reminders"))
	log.Info("Starting deadline reminder job")

	// Due dates are calendar dates; compare them with now's calendar dates
	today := services.CivilDate(now)
	windowEnd := services.CivilDate(now.Add(reminderWindow))

	// Find deadlines:
	// 1. With a reminder address
	// 2. Due today or within the window
	// 3. Not reminded yet
	var deadlines []models.Deadline
	err := database.
		Where("reminder_email IS NOT NULL AND reminder_email != ''").
		Where("due_date >= ? AND due_date <= ?", today, windowEnd).
		Where("reminder_sent_at IS NULL").
		Order("due_date ASC").
		Find(&deadlines).Error
	if err != nil {
		log.Error("Error fetching deadlines for reminders", zap.Error(err))
		return 0
	}

	log.Info("Found deadlines to remind", zap.Int("count", len(deadlines)))

	sent := 0
	for i := range deadlines {
		deadline := &deadlines[i]
		email := services.BuildDeadlineReminderEmail(*deadline.ReminderEmail, deadline, reminderLang)

		if err := services.SendEmail(cfg, email); err != nil {
			log.Error("Failed to send deadline reminder", zap.String("deadline_id", deadline.ID), zap.Error(err))
			continue
		}

		if err := database.Model(deadline).Update("reminder_sent_at", time.Now().UTC()).Error; err != nil {
			log.Error("Failed to mark reminder as sent", zap.String("deadline_id", deadline.ID), zap.Error(err))
			continue
		}
		sent++
		log.Info("Sent deadline reminder", zap.String("deadline_id", deadline.ID))
	}

	log.Info("Deadline reminder job completed", zap.Int("sent", sent))
	return sent
}
