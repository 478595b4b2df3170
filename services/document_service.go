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
	"minerva_app_go/services/llm"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Generation parameters for legal documents
const (
	documentTemperature = 0.3
	documentMaxTokens   = 2000
	defaultAuthor       = "Usuario"
)

// Export stages reported in ExportError
const (
	ExportStagePrint = "print"
	ExportStageShare = "share"
)

// DocumentAssembler turns form values into a finished, shareable legal document
type DocumentAssembler struct {
	Client  llm.Client
	Printer Printer
	Now     func() time.Time
}

// NewDocumentAssembler creates an assembler using the given collaborators
func NewDocumentAssembler(client llm.Client, printer Printer) *DocumentAssembler {
	return &DocumentAssembler{Client: client, Printer: printer, Now: time.Now}
}

// ExportResult describes a finished export
type ExportResult struct {
	FileName string       `json:"file_name"`
	Size     int64        `json:"size"`
	Share    *ShareResult `json:"share"`
}

// Generate validates values, asks the model for the document body and
// returns the assembled document. Validation always runs before any
// external call; lang selects the language of user-facing error messages.
func (a *DocumentAssembler) Generate(ctx context.Context, templateID string, values FormValues, lang string) (*GeneratedDocument, error) {
	tmpl, ok := GetDocumentTemplate(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	if err := ValidateFormValues(tmpl, values); err != nil {
		return nil, err
	}

	if a.Client == nil {
		return nil, a.generationError(templateID, lang, errors.New("text generation client not configured"))
	}

	prompt := BuildDocumentPrompt(templateID, values)
	content, err := llm.Complete(ctx, a.Client, DocumentSystemPrompt, prompt, documentTemperature, documentMaxTokens)
	if err != nil {
		return nil, a.generationError(templateID, lang, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, a.generationError(templateID, lang, llm.ErrEmptyResponse)
	}

	doc := &GeneratedDocument{
		TemplateID: tmpl.ID,
		Title:      tmpl.Title,
		Content:    content,
		Metadata: DocumentMetadata{
			CreatedAt:  a.now(),
			Author:     documentAuthor(values),
			CaseNumber: values.Get("caseNumber"),
		},
	}

	zap.L().Info("Document generated",
		zap.String("template_id", templateID),
		zap.Int("content_length", len(content)),
	)
	return doc, nil
}

// Render produces the HTML shell for a document
func (a *DocumentAssembler) Render(doc GeneratedDocument) (string, error) {
	return RenderDocumentHTML(doc)
}

// Export renders, prints and shares the document. Nothing is retried.
func (a *DocumentAssembler) Export(ctx context.Context, doc GeneratedDocument, sharer Sharer, lang string) (*ExportResult, error) {
	html, err := a.Render(doc)
	if err != nil {
		return nil, a.exportError(ExportStagePrint, lang, err)
	}

	if a.Printer == nil {
		return nil, a.exportError(ExportStagePrint, lang, errors.New("printer not configured"))
	}

	file, err := a.Printer.RenderToFile(ctx, html)
	if err != nil {
		return nil, a.exportError(ExportStagePrint, lang, err)
	}

	fileName := ExportFileName(doc.Title, a.now())
	if sharer == nil {
		return nil, a.exportError(ExportStageShare, lang, errors.New("no sharer configured"))
	}

	share, err := sharer.Share(ctx, file, fileName)
	if err != nil {
		return nil, a.exportError(ExportStageShare, lang, err)
	}

	zap.L().Info("Document exported",
		zap.String("template_id", doc.TemplateID),
		zap.String("file_name", fileName),
		zap.String("via", share.Via),
	)
	return &ExportResult{FileName: fileName, Size: file.Size(), Share: share}, nil
}

// ExportFileName returns "<title>_<unix millis>.pdf"
func ExportFileName(title string, at time.Time) string {
	return fmt.Sprintf("%s_%d.pdf", title, at.UnixMilli())
}

func (a *DocumentAssembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *DocumentAssembler) generationError(templateID, lang string, err error) error {
	zap.L().Error("Document generation failed",
		zap.String("template_id", templateID),
		zap.Bool("transient", llm.IsTransient(err)),
		zap.Error(err),
	)
	return &GenerationError{
		TemplateID:  templateID,
		UserMessage: i18n.Translate(lang, "documents.errors.generation"),
		err:         err,
	}
}

func (a *DocumentAssembler) exportError(stage, lang string, err error) error {
	zap.L().Error("Document export failed", zap.String("stage", stage), zap.Error(err))
	return &ExportError{
		Stage:       stage,
		UserMessage: i18n.Translate(lang, "documents.errors."+stage),
		err:         err,
	}
}

// documentAuthor picks the plaintiff, then the defendant, then a generic name
func documentAuthor(values FormValues) string {
	if v := values.Get("plaintiff"); v != "" {
		return v
	}
	if v := values.Get("defendant"); v != "" {
		return v
	}
	return defaultAuthor
}

// SaveGeneratedDocument stores a generated document. Form values are kept
// only in sealed form.
func SaveGeneratedDocument(db *gorm.DB, doc GeneratedDocument, values FormValues) (*models.GeneratedDocument, error) {
	record := doc.ToModel()

	sealed, err := SealFormValues(values)
	if err != nil {
		zap.L().Warn("Could not seal form values, storing document without them",
			zap.String("template_id", doc.TemplateID), zap.Error(err))
	} else {
		record.SealedFormValues = sealed
	}

	if err := db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to save generated document: %w", err)
	}
	return record, nil
}

// GetGeneratedDocument loads a stored document by id
func GetGeneratedDocument(db *gorm.DB, id string) (*models.GeneratedDocument, error) {
	var record models.GeneratedDocument
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load generated document: %w", err)
	}
	return &record, nil
}

// DocumentFormValues returns the form values a document was generated from.
// It is empty when the values were not kept.
func DocumentFormValues(record *models.GeneratedDocument) (FormValues, error) {
	values, err := OpenFormValues(record.SealedFormValues)
	if err != nil {
		return nil, fmt.Errorf("failed to open form values of %s: %w", record.ID, err)
	}
	return values, nil
}

// OpenExportedFile opens the last exported file of a document
func OpenExportedFile(ctx context.Context, provider StorageProvider, record *models.GeneratedDocument) (io.ReadCloser, string, error) {
	if record.StorageKey == "" || provider == nil || !provider.IsConfigured() {
		return nil, "", ErrFileNotFound
	}

	reader, contentType, err := provider.Get(ctx, record.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open exported file: %w", err)
	}
	return reader, contentType, nil
}

// ListGeneratedDocuments returns the most recent documents first
func ListGeneratedDocuments(db *gorm.DB, limit int) ([]models.GeneratedDocument, error) {
	var records []models.GeneratedDocument
	query := db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list generated documents: %w", err)
	}
	return records, nil
}

// MarkDocumentExported records where a document was exported to
func MarkDocumentExported(db *gorm.DB, record *models.GeneratedDocument, result *ExportResult, at time.Time) error {
	updates := map[string]interface{}{
		"file_name":    result.FileName,
		"exported_at":  at,
		"exported_via": result.Share.Via,
	}
	if result.Share.Key != "" {
		updates["storage_key"] = result.Share.Key
	}
	if result.Share.URL != "" {
		updates["export_url"] = result.Share.URL
	}

	if err := db.Model(record).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark document exported: %w", err)
	}
	return nil
}
