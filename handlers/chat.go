package handlers

import (
	"net/http"
	"strings"

	"minerva_app_go/middleware"
	"minerva_app_go/services"
	"minerva_app_go/services/i18n"
	"minerva_app_go/services/llm"
	"minerva_app_go/templates/partials"

	"github.com/labstack/echo/v4"
)

type chatRequest struct {
	Message string        `json:"message" form:"message"`
	History []llm.Message `json:"history"`
}

// ChatHandler answers a question in the context of the earlier turns.
// Model failures still return 200 with the localized fallback message.
func ChatHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.Translate(lang, "common.invalid_request"))
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return writeMessage(c, http.StatusBadRequest, i18n.Translate(lang, "chat.message_required"))
	}

	history := append(req.History, llm.Message{Role: llm.RoleUser, Content: message})
	resp := services.Chat(
		c.Request().Context(),
		services.TextGenerator,
		history,
		i18n.Translate(lang, "chat.fallback"),
		i18n.Translate(lang, "chat.empty"),
	)

	if isHTMX(c) {
		return renderPartial(c, http.StatusOK, partials.ChatMessage(resp))
	}
	return c.JSON(http.StatusOK, resp)
}
