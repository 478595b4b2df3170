package handlers

import (
	"net/http"

	"minerva_app_go/db"
	"minerva_app_go/services"
	"minerva_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

const overviewLimit = 5

// OverviewHandler summarizes upcoming deadlines and recent documents
func OverviewHandler(c echo.Context) error {
	deadlines, err := services.ListDeadlines(db.DB, nowFunc(), false)
	if err != nil {
		return respondError(c, err)
	}

	documents, err := services.ListGeneratedDocuments(db.DB, overviewLimit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, pages.NewOverviewStats(deadlines, documents, overviewLimit))
}
