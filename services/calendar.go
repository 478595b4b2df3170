package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"minerva_app_go/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CalendarProdID        = "-//Minerva//Legal Assistant//ES"
	CalendarTimezone      = "America/El_Salvador"
	DefaultEventLocation  = "Tribunal correspondiente"
	DefaultEventDuration  = time.Hour
	deadlineEventHour     = 8 // courts open at 8:00
	icsUIDDomain          = "minerva-legal.app"
	icsMaxLineOctets      = 75
	icsUTCFormat          = "20060102T150405Z"
	icsLocalFormat        = "20060102T150405"
	elSalvadorUTCOffset   = -6 * 60 * 60
	elSalvadorZoneAbbrev  = "CST"
	calendarStoragePrefix = "calendar"
)

// CalendarEvent is one entry to add to the user's calendar
type CalendarEvent struct {
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Notes     string    `json:"notes,omitempty"`
	Location  string    `json:"location,omitempty"`
	// DeadlineID groups stored events under their deadline when set
	DeadlineID string `json:"deadline_id,omitempty"`
}

// CalendarService creates calendar events and returns their id
type CalendarService interface {
	CreateEvent(ctx context.Context, event CalendarEvent) (string, error)
}

// SalvadorLocation returns the El Salvador zone. The country has no DST,
// so a fixed offset is used when tzdata is unavailable.
func SalvadorLocation() *time.Location {
	if loc, err := time.LoadLocation(CalendarTimezone); err == nil {
		return loc
	}
	return time.FixedZone(elSalvadorZoneAbbrev, elSalvadorUTCOffset)
}

// EventForDeadline builds the calendar event for a tracked deadline:
// one hour at the start of the court day the deadline falls due.
func EventForDeadline(d *models.Deadline) CalendarEvent {
	loc := SalvadorLocation()
	y, m, day := d.DueDate.Date()
	start := time.Date(y, m, day, deadlineEventHour, 0, 0, 0, loc)

	return CalendarEvent{
		Title:      d.Title,
		StartDate:  start,
		EndDate:    start.Add(DefaultEventDuration),
		Notes:      d.Description,
		Location:   DefaultEventLocation,
		DeadlineID: d.ID,
	}
}

// NewEventUID returns a globally unique ICS UID
func NewEventUID() string {
	return uuid.New().String() + "@" + icsUIDDomain
}

// GenerateEventICS builds an RFC 5545 calendar holding a single event
func GenerateEventICS(event CalendarEvent, uid string, stamp time.Time) []byte {
	loc := SalvadorLocation()
	end := event.EndDate
	if end.IsZero() || !end.After(event.StartDate) {
		end = event.StartDate.Add(DefaultEventDuration)
	}
	location := event.Location
	if location == "" {
		location = DefaultEventLocation
	}

	var buf bytes.Buffer
	writeLine := func(line string) {
		buf.WriteString(foldICSLine(line))
		buf.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:" + CalendarProdID)
	writeLine("CALSCALE:GREGORIAN")
	writeLine("METHOD:PUBLISH")
	writeLine("BEGIN:VTIMEZONE")
	writeLine("TZID:" + CalendarTimezone)
	writeLine("BEGIN:STANDARD")
	writeLine("DTSTART:19700101T000000")
	writeLine("TZOFFSETFROM:-0600")
	writeLine("TZOFFSETTO:-0600")
	writeLine("TZNAME:" + elSalvadorZoneAbbrev)
	writeLine("END:STANDARD")
	writeLine("END:VTIMEZONE")
	writeLine("BEGIN:VEVENT")
	writeLine("UID:" + uid)
	writeLine("DTSTAMP:" + stamp.UTC().Format(icsUTCFormat))
	writeLine(fmt.Sprintf("DTSTART;TZID=%s:%s", CalendarTimezone, event.StartDate.In(loc).Format(icsLocalFormat)))
	writeLine(fmt.Sprintf("DTEND;TZID=%s:%s", CalendarTimezone, end.In(loc).Format(icsLocalFormat)))
	writeLine("SUMMARY:" + escapeICSText(event.Title))
	if event.Notes != "" {
		writeLine("DESCRIPTION:" + escapeICSText(event.Notes))
	}
	writeLine("LOCATION:" + escapeICSText(location))
	writeLine("STATUS:CONFIRMED")
	writeLine("END:VEVENT")
	writeLine("END:VCALENDAR")

	return buf.Bytes()
}

// escapeICSText escapes backslashes, semicolons, commas and newlines
func escapeICSText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	replacer := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return replacer.Replace(s)
}

// foldICSLine splits lines longer than 75 octets without breaking UTF-8 runes
func foldICSLine(line string) string {
	if len(line) <= icsMaxLineOctets {
		return line
	}

	var b strings.Builder
	width := 0
	limit := icsMaxLineOctets
	for _, r := range line {
		size := len(string(r))
		if width+size > limit {
			b.WriteString("\r\n ")
			width = 0
			limit = icsMaxLineOctets - 1 // continuation lines start with a space
		}
		b.WriteRune(r)
		width += size
	}
	return b.String()
}

// ICSCalendar creates events as .ics files in file storage
type ICSCalendar struct {
	Provider StorageProvider
	Now      func() time.Time
}

// NewICSCalendar creates an ICS calendar backed by the given storage
func NewICSCalendar(provider StorageProvider) *ICSCalendar {
	return &ICSCalendar{Provider: provider, Now: time.Now}
}

// EventKey returns the storage key of an event file
func (c *ICSCalendar) EventKey(deadlineID, uid string) string {
	if deadlineID != "" {
		return GenerateCalendarEventKey(deadlineID, uid)
	}
	return calendarStoragePrefix + "/" + uid + ".ics"
}

// CreateEvent stores the event and returns its UID
func (c *ICSCalendar) CreateEvent(ctx context.Context, event CalendarEvent) (string, error) {
	if c.Provider == nil || !c.Provider.IsConfigured() {
		return "", fmt.Errorf("calendar storage is not configured")
	}
	if strings.TrimSpace(event.Title) == "" {
		return "", fmt.Errorf("calendar event title is required")
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	uid := NewEventUID()
	content := GenerateEventICS(event, uid, now())
	key := c.EventKey(event.DeadlineID, uid)

	if _, err := c.Provider.UploadReader(ctx, bytes.NewReader(content), key, "text/calendar", int64(len(content))); err != nil {
		return "", fmt.Errorf("failed to store calendar event: %w", err)
	}

	zap.L().Info("Calendar event created", zap.String("uid", uid), zap.String("deadline_id", event.DeadlineID))
	return uid, nil
}

// EventURL returns a download link for a stored event file
func (c *ICSCalendar) EventURL(ctx context.Context, deadlineID, uid string) string {
	key := c.EventKey(deadlineID, uid)
	if url, err := c.Provider.GetSignedURL(ctx, key, exportLinkTTL); err == nil && url != "" {
		return url
	}
	return c.Provider.GetPublicURL(key)
}
