package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"minerva_app_go/models"
	"minerva_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestGetDeadlineRulesHandler(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/api/deadlines/rules", nil)
	require.NoError(t, GetDeadlineRulesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var rules []caseTypeRuleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rules))
	require.Len(t, rules, 5)
	assert.Equal(t, "contestacion", rules[0].Code)
	assert.Equal(t, 3, rules[0].BusinessDays)
	assert.Equal(t, "Plazo para contestar demanda", rules[0].Description)
	assert.Equal(t, 15, rules[2].BusinessDays)
}

func TestCalculateDeadlineHandler(t *testing.T) {
	setupTestDB(t)

	t.Run("Known case type", func(t *testing.T) {
		_, c, rec := setupJSON(http.MethodPost, "/api/deadlines/calculate", `{"case_type":"contestacion","start_date":"2024-01-15"}`)
		require.NoError(t, CalculateDeadlineHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp deadlineCalculationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "2024-01-18", resp.DueDate)
		assert.Equal(t, "Plazo para contestar demanda", resp.Description)
		assert.Equal(t, 3, resp.Rule.BusinessDays)
		assert.Equal(t, 3, resp.DaysLeft)
		assert.Equal(t, models.DeadlinePriorityUrgent, resp.Priority)
	})

	t.Run("Unknown case type uses the generic rule", func(t *testing.T) {
		_, c, rec := setupJSON(http.MethodPost, "/api/deadlines/calculate", `{"case_type":"desconocido","start_date":"2024-01-19"}`)
		require.NoError(t, CalculateDeadlineHandler(c))

		var resp deadlineCalculationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "2024-01-26", resp.DueDate)
		assert.Equal(t, "default", resp.Rule.Code)
		assert.Equal(t, "Plazo genérico", resp.Description)
	})

	t.Run("Defaults to today", func(t *testing.T) {
		_, c, rec := setupJSON(http.MethodPost, "/api/deadlines/calculate", `{"case_type":"casacion"}`)
		require.NoError(t, CalculateDeadlineHandler(c))

		var resp deadlineCalculationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "2024-02-05", resp.DueDate)
		assert.Equal(t, models.DeadlinePriorityLow, resp.Priority)
	})

	t.Run("Missing case type", func(t *testing.T) {
		_, c, rec := setupJSON(http.MethodPost, "/api/deadlines/calculate", `{"start_date":"2024-01-15"}`)
		require.NoError(t, CalculateDeadlineHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Por favor selecciona el tipo de caso")
	})

	t.Run("Invalid date", func(t *testing.T) {
		_, c, rec := setupJSON(http.MethodPost, "/api/deadlines/calculate", `{"case_type":"amparo","start_date":"15/01/2024"}`)
		require.NoError(t, CalculateDeadlineHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("HTMX fragment", func(t *testing.T) {
		_, c, rec := setupJSON(http.MethodPost, "/api/deadlines/calculate", `{"case_type":"apelacion","start_date":"2024-01-15"}`)
		c.Request().Header.Set("HX-Request", "true")
		require.NoError(t, CalculateDeadlineHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "18/1/2024")
		assert.Contains(t, rec.Body.String(), `id="deadline-result"`)
	})
}

func TestCreateAndListDeadlines(t *testing.T) {
	database := setupTestDB(t)

	_, c, rec := setupJSON(http.MethodPost, "/api/deadlines",
		`{"title":"Amparo Pérez","case_type":"amparo","case_number":"AMP-12-2024","start_date":"2024-01-15"}`)
	require.NoError(t, CreateDeadlineHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Amparo Pérez", created["title"])
	assert.Equal(t, "Plazo para amparo", created["description"])
	assert.Equal(t, float64(3), created["days_left"])
	assert.Equal(t, models.DeadlinePriorityUrgent, created["priority"])

	// A deadline already past is hidden by default
	require.NoError(t, database.Create(&models.Deadline{
		Title: "Vencido", CaseType: "apelacion", StartDate: day(2024, 1, 5), DueDate: day(2024, 1, 10),
	}).Error)

	_, c, rec = setupEcho(http.MethodGet, "/api/deadlines", nil)
	require.NoError(t, ListDeadlinesHandler(c))
	var listed struct {
		Data  []map[string]interface{} `json:"data"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Total)
	assert.Equal(t, "Amparo Pérez", listed.Data[0]["title"])

	_, c, rec = setupEcho(http.MethodGet, "/api/deadlines?all=true", nil)
	require.NoError(t, ListDeadlinesHandler(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, 2, listed.Total)
	assert.Equal(t, "Vencido", listed.Data[0]["title"])

	t.Run("Requires title", func(t *testing.T) {
		_, c, rec := setupJSON(http.MethodPost, "/api/deadlines", `{"case_type":"amparo"}`)
		require.NoError(t, CreateDeadlineHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Por favor completa todos los campos requeridos")
	})

	t.Run("HTMX list", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/deadlines", nil)
		c.Request().Header.Set("HX-Request", "true")
		require.NoError(t, ListDeadlinesHandler(c))
		assert.Contains(t, rec.Body.String(), "Amparo Pérez")
		assert.Contains(t, rec.Body.String(), "AMP-12-2024")
		assert.Contains(t, rec.Body.String(), "Urgente")
	})
}

func TestDeleteDeadlineHandler(t *testing.T) {
	database := setupTestDB(t)
	d := models.Deadline{Title: "Revisión", CaseType: "revision", StartDate: day(2024, 1, 15), DueDate: day(2024, 1, 25)}
	require.NoError(t, database.Create(&d).Error)

	_, c, rec := setupEcho(http.MethodDelete, "/api/deadlines/"+d.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(d.ID)
	require.NoError(t, DeleteDeadlineHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, c, rec = setupEcho(http.MethodDelete, "/api/deadlines/"+d.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(d.ID)
	require.NoError(t, DeleteDeadlineHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Plazo no encontrado")
}

func TestDeadlineEventDownloadAndDelete(t *testing.T) {
	database := setupTestDB(t)
	previous := services.Calendar
	services.Calendar = services.NewICSCalendar(services.Storage)
	t.Cleanup(func() { services.Calendar = previous })

	d := models.Deadline{Title: "Apelación", CaseType: "apelacion", StartDate: day(2024, 1, 15), DueDate: day(2024, 1, 18)}
	require.NoError(t, database.Create(&d).Error)

	download := func() *httptest.ResponseRecorder {
		_, c, rec := setupEcho(http.MethodGet, "/api/deadlines/"+d.ID+"/calendar", nil)
		c.SetParamNames("id")
		c.SetParamValues(d.ID)
		require.NoError(t, DownloadDeadlineEventHandler(c))
		return rec
	}

	rec := download()
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Archivo no encontrado")

	_, c, rec := setupEcho(http.MethodPost, "/api/deadlines/"+d.ID+"/calendar", nil)
	c.SetParamNames("id")
	c.SetParamValues(d.ID)
	require.NoError(t, AddDeadlineToCalendarHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = download()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/calendar")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "plazo-"+d.ID+".ics")
	assert.Contains(t, rec.Body.String(), "DTSTART;TZID=America/El_Salvador:20240118T080000")

	_, c, rec = setupEcho(http.MethodDelete, "/api/deadlines/"+d.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(d.ID)
	require.NoError(t, DeleteDeadlineHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var deleted models.Deadline
	require.NoError(t, database.Unscoped().First(&deleted, "id = ?", d.ID).Error)
	require.NotNil(t, deleted.CalendarEventID)
	_, _, err := services.Storage.Get(context.Background(), services.GenerateCalendarEventKey(d.ID, *deleted.CalendarEventID))
	assert.Error(t, err)
}

func TestAddDeadlineToCalendarHandler(t *testing.T) {
	database := setupTestDB(t)
	previous := services.Calendar
	services.Calendar = services.NewICSCalendar(services.Storage)
	t.Cleanup(func() { services.Calendar = previous })

	d := models.Deadline{Title: "Casación", CaseType: "casacion", StartDate: day(2024, 1, 15), DueDate: day(2024, 2, 5)}
	require.NoError(t, database.Create(&d).Error)

	_, c, rec := setupEcho(http.MethodPost, "/api/deadlines/"+d.ID+"/calendar", nil)
	c.SetParamNames("id")
	c.SetParamValues(d.ID)
	require.NoError(t, AddDeadlineToCalendarHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasSuffix(resp["event_id"], "@minerva-legal.app"))
	assert.True(t, strings.HasSuffix(resp["url"], ".ics"))
	assert.Equal(t, "Evento agregado al calendario", resp["message"])

	var reloaded models.Deadline
	require.NoError(t, database.First(&reloaded, "id = ?", d.ID).Error)
	require.NotNil(t, reloaded.CalendarEventID)
	assert.Equal(t, resp["event_id"], *reloaded.CalendarEventID)

	t.Run("Unknown deadline", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/deadlines/missing/calendar", nil)
		c.SetParamNames("id")
		c.SetParamValues("missing")
		require.NoError(t, AddDeadlineToCalendarHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestExportDeadlinesHandler(t *testing.T) {
	database := setupTestDB(t)
	require.NoError(t, database.Create(&models.Deadline{
		Title: "Apelación Gómez", CaseType: "apelacion", StartDate: day(2024, 1, 15), DueDate: day(2024, 1, 18),
	}).Error)

	_, c, rec := setupEcho(http.MethodGet, "/api/deadlines/export", nil)
	require.NoError(t, ExportDeadlinesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.DeadlinesSpreadsheetContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=deadlines_20240115.xlsx", rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Plazos", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Apelación Gómez", title)
}
