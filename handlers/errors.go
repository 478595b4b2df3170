package handlers

import (
	"errors"
	"net/http"

	"minerva_app_go/middleware"
	"minerva_app_go/services"
	"minerva_app_go/services/i18n"
	"minerva_app_go/templates/partials"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// errorResponse is the JSON body of every failed API call
type errorResponse struct {
	Error   string                  `json:"error"`
	Missing []services.FieldProblem `json:"missing,omitempty"`
	Invalid []services.FieldProblem `json:"invalid,omitempty"`
}

// respondError maps domain errors to a status code and a localized message
func respondError(c echo.Context, err error) error {
	lang := middleware.GetLocale(c)

	var (
		validationErr *services.ValidationError
		generationErr *services.GenerationError
		exportErr     *services.ExportError
	)

	switch {
	case errors.As(err, &validationErr):
		body := errorResponse{
			Error:   i18n.Translate(lang, "documents.errors.validation"),
			Missing: validationErr.Missing,
			Invalid: validationErr.Invalid,
		}
		details := validationErr.MissingLabels()
		for _, p := range validationErr.Invalid {
			details = append(details, p.Label)
		}
		return writeError(c, http.StatusUnprocessableEntity, body, details)
	case errors.Is(err, services.ErrTemplateNotFound):
		return writeMessage(c, http.StatusNotFound, i18n.Translate(lang, "documents.errors.template_not_found"))
	case errors.Is(err, services.ErrDocumentNotFound):
		return writeMessage(c, http.StatusNotFound, i18n.Translate(lang, "documents.errors.not_found"))
	case errors.Is(err, services.ErrDeadlineNotFound):
		return writeMessage(c, http.StatusNotFound, i18n.Translate(lang, "deadlines.errors.not_found"))
	case errors.Is(err, services.ErrFileNotFound):
		return writeMessage(c, http.StatusNotFound, i18n.Translate(lang, "common.file_not_found"))
	case errors.Is(err, services.ErrDeadlineFieldsRequired):
		return writeMessage(c, http.StatusUnprocessableEntity, i18n.Translate(lang, "deadlines.errors.required_fields"))
	case errors.Is(err, services.ErrInvalidDate):
		return writeMessage(c, http.StatusBadRequest, i18n.Translate(lang, "deadlines.errors.invalid_date"))
	case errors.As(err, &generationErr):
		return writeMessage(c, http.StatusBadGateway, generationErr.UserMessage)
	case errors.As(err, &exportErr):
		return writeMessage(c, http.StatusBadGateway, exportErr.UserMessage)
	}

	zap.L().Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	return writeMessage(c, http.StatusInternalServerError, i18n.Translate(lang, "common.internal"))
}

func writeMessage(c echo.Context, status int, message string) error {
	return writeError(c, status, errorResponse{Error: message}, nil)
}

func writeError(c echo.Context, status int, body errorResponse, details []string) error {
	if isHTMX(c) {
		return renderPartial(c, status, partials.ErrorAlert(body.Error, details))
	}
	return c.JSON(status, body)
}
