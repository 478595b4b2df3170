package handlers

import (
	"net/http"
	"strings"

	"minerva_app_go/middleware"
	"minerva_app_go/services/i18n"

	"github.com/labstack/echo/v4"
)

type setLocaleRequest struct {
	Lang string `json:"lang" form:"lang"`
}

// SetLocaleHandler stores the preferred language in the lang cookie
func SetLocaleHandler(c echo.Context) error {
	var req setLocaleRequest
	if err := c.Bind(&req); err != nil {
		return writeMessage(c, http.StatusBadRequest, i18n.Translate(middleware.GetLocale(c), "common.invalid_request"))
	}

	lang := strings.ToLower(strings.TrimSpace(req.Lang))
	if lang == "" || !i18n.Supported(lang) {
		return writeMessage(c, http.StatusBadRequest, i18n.Translate(middleware.GetLocale(c), "common.invalid_request"))
	}

	middleware.SetLanguageCookie(c, lang)

	if isHTMX(c) {
		c.Response().Header().Set("HX-Refresh", "true")
		return c.NoContent(http.StatusOK)
	}
	return c.JSON(http.StatusOK, map[string]string{"lang": lang})
}
