package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"minerva_app_go/models"
	"minerva_app_go/services/i18n"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDeadlineFieldsRequired is returned when a deadline lacks a title or case type
var ErrDeadlineFieldsRequired = errors.New("deadline title and case type are required")

// CreateDeadlineInput holds the user-provided fields for a tracked deadline
type CreateDeadlineInput struct {
	Title         string
	Description   string
	CaseType      string
	CaseNumber    string
	StartDate     time.Time
	ReminderEmail string
}

// DeadlineView is a tracked deadline with its urgency relative to now
type DeadlineView struct {
	models.Deadline
	DaysLeft         int    `json:"days_left"`
	BusinessDaysLeft int    `json:"business_days_left"`
	Priority         string `json:"priority"`
}

// NewDeadlineView computes days left and priority for d
func NewDeadlineView(d models.Deadline, now time.Time) DeadlineView {
	days := DaysLeft(d.DueDate, now)
	return DeadlineView{
		Deadline:         d,
		DaysLeft:         days,
		BusinessDaysLeft: BusinessDaysBetween(now, d.DueDate),
		Priority:         DeadlinePriority(days),
	}
}

// RuleDescription returns the rule description in lang, falling back to
// the built-in English text.
func RuleDescription(lang string, rule CaseTypeRule) string {
	key := "deadlines.rules." + rule.Code
	if text := i18n.Translate(lang, key); text != key {
		return text
	}
	return rule.Description
}

// CreateDeadline computes the due date for the case type and stores the deadline
func CreateDeadline(db *gorm.DB, input CreateDeadlineInput, lang string) (*models.Deadline, error) {
	title := strings.TrimSpace(input.Title)
	caseType := strings.ToLower(strings.TrimSpace(input.CaseType))
	if title == "" || caseType == "" {
		return nil, ErrDeadlineFieldsRequired
	}

	start := Today()
	if !input.StartDate.IsZero() {
		start = CivilDate(input.StartDate)
	}

	result := ComputeDeadline(caseType, start)
	deadline := &models.Deadline{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CaseType:    caseType,
		StartDate:   start,
		DueDate:     result.DueDate,
	}
	if deadline.Description == "" {
		deadline.Description = RuleDescription(lang, result.Rule)
	}
	if v := strings.TrimSpace(input.CaseNumber); v != "" {
		deadline.CaseNumber = &v
	}
	if v := strings.TrimSpace(input.ReminderEmail); v != "" {
		deadline.ReminderEmail = &v
	}

	if err := db.Create(deadline).Error; err != nil {
		return nil, fmt.Errorf("failed to create deadline: %w", err)
	}

	zap.L().Info("Deadline created",
		zap.String("deadline_id", deadline.ID),
		zap.String("case_type", caseType),
		zap.Time("due_date", deadline.DueDate),
	)
	return deadline, nil
}

// ListDeadlines returns deadlines ordered by due date. Deadlines whose due
// day is before now's calendar date are skipped unless includePast is set.
func ListDeadlines(db *gorm.DB, now time.Time, includePast bool) ([]DeadlineView, error) {
	var deadlines []models.Deadline
	query := db.Order("due_date ASC")
	if !includePast {
		query = query.Where("due_date >= ?", CivilDate(now))
	}
	if err := query.Find(&deadlines).Error; err != nil {
		return nil, fmt.Errorf("failed to list deadlines: %w", err)
	}

	views := make([]DeadlineView, 0, len(deadlines))
	for _, d := range deadlines {
		views = append(views, NewDeadlineView(d, now))
	}
	return views, nil
}

// GetDeadline loads a deadline by id
func GetDeadline(db *gorm.DB, id string) (*models.Deadline, error) {
	var deadline models.Deadline
	if err := db.First(&deadline, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeadlineNotFound
		}
		return nil, fmt.Errorf("failed to load deadline: %w", err)
	}
	return &deadline, nil
}

// DeleteDeadline soft-deletes a deadline and removes its stored calendar
// event, if any. provider may be nil.
func DeleteDeadline(ctx context.Context, db *gorm.DB, provider StorageProvider, id string) error {
	deadline, err := GetDeadline(db, id)
	if err != nil {
		return err
	}

	if err := db.Delete(deadline).Error; err != nil {
		return fmt.Errorf("failed to delete deadline: %w", err)
	}

	if deadline.CalendarEventID != nil && provider != nil && provider.IsConfigured() {
		key := GenerateCalendarEventKey(deadline.ID, *deadline.CalendarEventID)
		if err := provider.Delete(ctx, key); err != nil {
			// The deadline is gone either way
			zap.L().Warn("Failed to delete calendar event file", zap.String("deadline_id", deadline.ID), zap.Error(err))
		}
	}
	return nil
}

// OpenDeadlineEvent opens the stored .ics file of a deadline
func OpenDeadlineEvent(ctx context.Context, db *gorm.DB, provider StorageProvider, id string) (io.ReadCloser, error) {
	deadline, err := GetDeadline(db, id)
	if err != nil {
		return nil, err
	}
	if deadline.CalendarEventID == nil || provider == nil || !provider.IsConfigured() {
		return nil, ErrFileNotFound
	}

	reader, _, err := provider.Get(ctx, GenerateCalendarEventKey(deadline.ID, *deadline.CalendarEventID))
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar event: %w", err)
	}
	return reader, nil
}

// AddDeadlineToCalendar creates a calendar event for the deadline and
// remembers its id
func AddDeadlineToCalendar(ctx context.Context, db *gorm.DB, calendar CalendarService, id string) (*models.Deadline, error) {
	deadline, err := GetDeadline(db, id)
	if err != nil {
		return nil, err
	}

	eventID, err := calendar.CreateEvent(ctx, EventForDeadline(deadline))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	if err := db.Model(deadline).Update("calendar_event_id", eventID).Error; err != nil {
		return nil, fmt.Errorf("failed to save calendar event id: %w", err)
	}
	deadline.CalendarEventID = &eventID
	return deadline, nil
}
