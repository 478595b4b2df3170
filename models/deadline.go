package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deadline priority constants
const (
	DeadlinePriorityUrgent = "urgent"
	DeadlinePriorityMedium = "medium"
	DeadlinePriorityLow    = "low"
)

// Deadline is a tracked procedural deadline computed from a case type rule
type Deadline struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	CaseType    string  `gorm:"not null;index" json:"case_type"`
	CaseNumber  *string `json:"case_number,omitempty"`

	// Calendar dates, stored at midnight UTC
	StartDate time.Time `gorm:"not null" json:"start_date"`
	DueDate   time.Time `gorm:"not null;index" json:"due_date"`

	// Reminder tracking
	ReminderEmail  *string    `json:"reminder_email,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`

	// Calendar export
	CalendarEventID *string `json:"calendar_event_id,omitempty"`
}

// BeforeCreate hook to generate UUID and normalise the dates
func (d *Deadline) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.StartDate = civilDate(d.StartDate)
	d.DueDate = civilDate(d.DueDate)
	return nil
}

func civilDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// TableName specifies the table name for Deadline model
func (Deadline) TableName() string {
	return "deadlines"
}

// IsValidPriority checks if the priority is a known value
func IsValidPriority(priority string) bool {
	return priority == DeadlinePriorityUrgent || priority == DeadlinePriorityMedium || priority == DeadlinePriorityLow
}
