package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"minerva_app_go/config"
	"minerva_app_go/db"
	"minerva_app_go/middleware"
	"minerva_app_go/models"
	"minerva_app_go/services"
	"minerva_app_go/services/i18n"
	"minerva_app_go/templates/partials"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetTemplatesHandler lists the document templates
func GetTemplatesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, services.DocumentTemplates())
}

// GetTemplateHandler returns one template with its field specs
func GetTemplateHandler(c echo.Context) error {
	tmpl, ok := services.GetDocumentTemplate(c.Param("id"))
	if !ok {
		return respondError(c, services.ErrTemplateNotFound)
	}
	return c.JSON(http.StatusOK, tmpl)
}

type generateDocumentRequest struct {
	TemplateID string            `json:"template_id"`
	Values     map[string]string `json:"values"`
}

type generateDocumentResponse struct {
	ID         string                     `json:"id"`
	Document   services.GeneratedDocument `json:"document"`
	PreviewURL string                     `json:"preview_url"`
	Warnings   []services.FieldProblem    `json:"warnings,omitempty"`
}

// GenerateDocumentHandler validates the form, drafts the document and stores it
func GenerateDocumentHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)

	req, err := bindGenerateRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.Translate(lang, "common.invalid_request"))
	}

	if services.Assembler == nil {
		zap.L().Error("Document generation requested without an assembler")
		return writeMessage(c, http.StatusServiceUnavailable, i18n.Translate(lang, "documents.errors.generation"))
	}

	values := services.FormValues(req.Values)
	doc, err := services.Assembler.Generate(c.Request().Context(), req.TemplateID, values, lang)
	if err != nil {
		return respondError(c, err)
	}

	record, err := services.SaveGeneratedDocument(db.DB, *doc, values)
	if err != nil {
		return respondError(c, err)
	}

	if isHTMX(c) {
		c.Response().Header().Set("HX-Trigger", "documentGenerated")
		return renderPartial(c, http.StatusCreated, partials.DocumentCard(*record))
	}
	resp := generateDocumentResponse{
		ID:         record.ID,
		Document:   *doc,
		PreviewURL: "/api/documents/" + record.ID + "/preview",
	}
	if tmpl, ok := services.GetDocumentTemplate(req.TemplateID); ok {
		resp.Warnings = services.FormWarnings(tmpl, values)
	}
	return c.JSON(http.StatusCreated, resp)
}

// bindGenerateRequest accepts a JSON body or a flat HTML form where every
// field other than template_id is a form value
func bindGenerateRequest(c echo.Context) (generateDocumentRequest, error) {
	var req generateDocumentRequest
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		err := c.Bind(&req)
		return req, err
	}

	form, err := c.FormParams()
	if err != nil {
		return req, err
	}
	req.TemplateID = form.Get("template_id")
	req.Values = make(map[string]string, len(form))
	for name := range form {
		if name != "template_id" {
			req.Values[name] = form.Get(name)
		}
	}
	return req, nil
}

// ListDocumentsHandler returns generated documents, newest first
func ListDocumentsHandler(c echo.Context) error {
	limit := 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	records, err := services.ListGeneratedDocuments(db.DB, limit)
	if err != nil {
		return respondError(c, err)
	}

	if isHTMX(c) {
		return renderPartial(c, http.StatusOK, partials.DocumentList(records))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  records,
		"total": len(records),
	})
}

// GetDocumentHandler returns a stored document with the form values it was
// generated from, when they were kept
func GetDocumentHandler(c echo.Context) error {
	record, err := services.GetGeneratedDocument(db.DB, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	values, err := services.DocumentFormValues(record)
	if err != nil {
		// Key rotated or missing; the document itself is still useful
		zap.L().Warn("Failed to open form values", zap.String("document_id", record.ID), zap.Error(err))
		values = services.FormValues{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"document": record,
		"values":   values,
	})
}

// DownloadDocumentHandler streams the last exported file of a document
func DownloadDocumentHandler(c echo.Context) error {
	record, err := services.GetGeneratedDocument(db.DB, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	reader, contentType, err := services.OpenExportedFile(c.Request().Context(), services.Storage, record)
	if err != nil {
		return respondError(c, err)
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, record.FileName))
	return c.Stream(http.StatusOK, contentType, reader)
}

// PreviewDocumentHandler returns the printable HTML of a stored document
func PreviewDocumentHandler(c echo.Context) error {
	record, err := services.GetGeneratedDocument(db.DB, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	html, err := services.RenderDocumentHTML(services.GeneratedDocumentFromModel(record))
	if err != nil {
		return respondError(c, err)
	}
	return c.HTML(http.StatusOK, html)
}

type exportDocumentRequest struct {
	Via   string `json:"via" form:"via"`
	Email string `json:"email" form:"email"`
}

// ExportDocumentHandler prints a stored document to PDF and shares it
func ExportDocumentHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)
	cfg := c.Get("config").(*config.Config)

	var req exportDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, i18n.Translate(lang, "common.invalid_request"))
	}

	record, err := services.GetGeneratedDocument(db.DB, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	sharer, err := sharerFor(req, record, lang, cfg)
	if err != nil {
		return writeMessage(c, http.StatusUnprocessableEntity, err.Error())
	}

	if services.Assembler == nil {
		return writeMessage(c, http.StatusServiceUnavailable, i18n.Translate(lang, "documents.errors.print"))
	}

	result, err := services.Assembler.Export(c.Request().Context(), services.GeneratedDocumentFromModel(record), sharer, lang)
	if err != nil {
		return respondError(c, err)
	}

	if err := services.MarkDocumentExported(db.DB, record, result, nowFunc()); err != nil {
		// The file already reached the user
		zap.L().Warn("Failed to record export", zap.String("document_id", record.ID), zap.Error(err))
	}

	if isHTMX(c) {
		return renderPartial(c, http.StatusOK, partials.ExportResult(result))
	}
	return c.JSON(http.StatusOK, result)
}

func sharerFor(req exportDocumentRequest, record *models.GeneratedDocument, lang string, cfg *config.Config) (services.Sharer, error) {
	switch strings.ToLower(strings.TrimSpace(req.Via)) {
	case "", services.ShareViaStorage:
		return services.NewStorageSharer(services.Storage, func(filename string) string {
			return services.GenerateDocumentExportKey(record.ID, filename)
		}), nil
	case services.ShareViaEmail:
		email := strings.TrimSpace(req.Email)
		if email == "" {
			return nil, errors.New(i18n.Translate(lang, "documents.errors.email_required"))
		}
		return &services.EmailSharer{Config: cfg, To: email, Title: record.Title, Lang: lang}, nil
	}
	return nil, errors.New(i18n.Translate(lang, "common.invalid_request"))
}
