package handlers

import (
	"net/http"

	"minerva_app_go/db"
	"minerva_app_go/middleware"
	"minerva_app_go/models"
	"minerva_app_go/services"
	"minerva_app_go/services/i18n"
	"minerva_app_go/templates/partials"

	"github.com/labstack/echo/v4"
)

// GetResourcesHandler lists the legal help directory, optionally one category
func GetResourcesHandler(c echo.Context) error {
	category := c.QueryParam("category")
	if category != "" && !models.IsValidResourceCategory(category) {
		lang := middleware.GetLocale(c)
		return writeMessage(c, http.StatusBadRequest, i18n.Translate(lang, "resources.errors.invalid_category"))
	}

	resources, err := services.ListLegalResources(db.DB, category)
	if err != nil {
		return respondError(c, err)
	}

	if isHTMX(c) {
		return renderPartial(c, http.StatusOK, partials.ResourceList(resources))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  resources,
		"total": len(resources),
	})
}
