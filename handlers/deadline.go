package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"minerva_app_go/db"
	"minerva_app_go/middleware"
	"minerva_app_go/services"
	"minerva_app_go/services/i18n"
	"minerva_app_go/templates/partials"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// nowFunc is replaced in tests to pin the clock
var nowFunc = services.LocalNow

// today returns the current calendar date, matching ParseDate
func today() time.Time {
	return services.CivilDate(nowFunc())
}

type caseTypeRuleResponse struct {
	Code         string `json:"code"`
	BusinessDays int    `json:"business_days"`
	Description  string `json:"description"`
}

// GetDeadlineRulesHandler lists the known case types and their terms
func GetDeadlineRulesHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)

	rules := services.CaseTypeRules()
	response := make([]caseTypeRuleResponse, 0, len(rules))
	for _, r := range rules {
		response = append(response, caseTypeRuleResponse{
			Code:         r.Code,
			BusinessDays: r.BusinessDays,
			Description:  services.RuleDescription(lang, r),
		})
	}
	return c.JSON(http.StatusOK, response)
}

type calculateDeadlineRequest struct {
	CaseType  string `json:"case_type" form:"case_type"`
	StartDate string `json:"start_date" form:"start_date"`
}

type deadlineCalculationResponse struct {
	DueDate     string               `json:"due_date"`
	Description string               `json:"description"`
	Rule        caseTypeRuleResponse `json:"rule"`
	DaysLeft    int                  `json:"days_left"`
	Priority    string               `json:"priority"`
}

// CalculateDeadlineHandler computes a due date without storing anything
func CalculateDeadlineHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)

	var req calculateDeadlineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.Translate(lang, "common.invalid_request"))
	}
	if strings.TrimSpace(req.CaseType) == "" {
		return writeMessage(c, http.StatusBadRequest, i18n.Translate(lang, "deadlines.errors.case_type_required"))
	}

	start, err := startDateOrToday(req.StartDate)
	if err != nil {
		return respondError(c, err)
	}

	result := services.ComputeDeadline(req.CaseType, start)
	result.Description = services.RuleDescription(lang, result.Rule)
	daysLeft := services.DaysLeft(result.DueDate, nowFunc())
	priority := services.DeadlinePriority(daysLeft)

	if isHTMX(c) {
		return renderPartial(c, http.StatusOK, partials.DeadlineResult(result, daysLeft, priority))
	}

	return c.JSON(http.StatusOK, deadlineCalculationResponse{
		DueDate:     result.DueDate.Format("2006-01-02"),
		Description: result.Description,
		Rule: caseTypeRuleResponse{
			Code:         result.Rule.Code,
			BusinessDays: result.Rule.BusinessDays,
			Description:  result.Description,
		},
		DaysLeft: daysLeft,
		Priority: priority,
	})
}

func startDateOrToday(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return today(), nil
	}
	return services.ParseDate(value)
}

// ListDeadlinesHandler returns tracked deadlines. Pass all=true to include past ones.
func ListDeadlinesHandler(c echo.Context) error {
	views, err := services.ListDeadlines(db.DB, nowFunc(), c.QueryParam("all") == "true")
	if err != nil {
		return respondError(c, err)
	}

	if isHTMX(c) {
		return renderPartial(c, http.StatusOK, partials.DeadlineList(views))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  views,
		"total": len(views),
	})
}

type createDeadlineRequest struct {
	Title         string `json:"title" form:"title"`
	Description   string `json:"description" form:"description"`
	CaseType      string `json:"case_type" form:"case_type"`
	CaseNumber    string `json:"case_number" form:"case_number"`
	StartDate     string `json:"start_date" form:"start_date"`
	ReminderEmail string `json:"reminder_email" form:"reminder_email"`
}

// CreateDeadlineHandler computes and stores a tracked deadline
func CreateDeadlineHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)

	var req createDeadlineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.Translate(lang, "common.invalid_request"))
	}

	start, err := startDateOrToday(req.StartDate)
	if err != nil {
		return respondError(c, err)
	}

	deadline, err := services.CreateDeadline(db.DB, services.CreateDeadlineInput{
		Title:         req.Title,
		Description:   req.Description,
		CaseType:      req.CaseType,
		CaseNumber:    req.CaseNumber,
		StartDate:     start,
		ReminderEmail: req.ReminderEmail,
	}, lang)
	if err != nil {
		return respondError(c, err)
	}

	view := services.NewDeadlineView(*deadline, nowFunc())
	if isHTMX(c) {
		c.Response().Header().Set("HX-Trigger", "deadlineCreated")
		return renderPartial(c, http.StatusCreated, partials.DeadlineItem(view))
	}
	return c.JSON(http.StatusCreated, view)
}

// DeleteDeadlineHandler removes a tracked deadline
func DeleteDeadlineHandler(c echo.Context) error {
	if err := services.DeleteDeadline(c.Request().Context(), db.DB, services.Storage, c.Param("id")); err != nil {
		return respondError(c, err)
	}

	if isHTMX(c) {
		c.Response().Header().Set("HX-Trigger", "deadlineDeleted")
		return c.HTML(http.StatusOK, "")
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadDeadlineEventHandler streams the stored .ics file of a deadline
func DownloadDeadlineEventHandler(c echo.Context) error {
	id := c.Param("id")
	reader, err := services.OpenDeadlineEvent(c.Request().Context(), db.DB, services.Storage, id)
	if err != nil {
		return respondError(c, err)
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="plazo-%s.ics"`, id))
	return c.Stream(http.StatusOK, "text/calendar; charset=utf-8", reader)
}

// eventLinker is implemented by calendars that can hand out a download link
type eventLinker interface {
	EventURL(ctx context.Context, deadlineID, uid string) string
}

// AddDeadlineToCalendarHandler creates a calendar event for a tracked deadline
func AddDeadlineToCalendarHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)
	id := c.Param("id")

	if services.Calendar == nil {
		return writeMessage(c, http.StatusServiceUnavailable, i18n.Translate(lang, "deadlines.errors.calendar"))
	}

	deadline, err := services.AddDeadlineToCalendar(c.Request().Context(), db.DB, services.Calendar, id)
	if err != nil {
		if errors.Is(err, services.ErrDeadlineNotFound) {
			return respondError(c, err)
		}
		zap.L().Error("Failed to add deadline to calendar", zap.String("deadline_id", id), zap.Error(err))
		return writeMessage(c, http.StatusBadGateway, i18n.Translate(lang, "deadlines.errors.calendar"))
	}

	eventID := *deadline.CalendarEventID
	url := ""
	if linker, ok := services.Calendar.(eventLinker); ok {
		url = linker.EventURL(c.Request().Context(), deadline.ID, eventID)
	}

	if isHTMX(c) {
		c.Response().Header().Set("HX-Trigger", "calendarEventAdded")
		return renderPartial(c, http.StatusOK, partials.SuccessAlert(i18n.Translate(lang, "deadlines.calendar_added")))
	}
	return c.JSON(http.StatusOK, map[string]string{
		"event_id": eventID,
		"url":      url,
		"message":  i18n.Translate(lang, "deadlines.calendar_added"),
	})
}

// ExportDeadlinesHandler downloads tracked deadlines as a spreadsheet
func ExportDeadlinesHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)
	now := nowFunc()

	views, err := services.ListDeadlines(db.DB, now, c.QueryParam("all") == "true")
	if err != nil {
		return respondError(c, err)
	}

	buf, err := services.ExportDeadlinesXLSX(views, lang)
	if err != nil {
		zap.L().Error("Failed to export deadlines", zap.Error(err))
		return writeMessage(c, http.StatusInternalServerError, i18n.Translate(lang, "deadlines.errors.export"))
	}

	filename := fmt.Sprintf("deadlines_%s.xlsx", now.Format("20060102"))
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+filename)
	return c.Blob(http.StatusOK, services.DeadlinesSpreadsheetContentType, buf.Bytes())
}
