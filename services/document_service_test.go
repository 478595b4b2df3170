package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"minerva_app_go/services/i18n"
	"minerva_app_go/services/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPrinter is a mock implementation of Printer
type MockPrinter struct {
	mock.Mock
}

func (m *MockPrinter) RenderToFile(ctx context.Context, html string) (*RenderedFile, error) {
	args := m.Called(ctx, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderedFile), args.Error(1)
}

// MockSharer is a mock implementation of Sharer
type MockSharer struct {
	mock.Mock
}

func (m *MockSharer) Share(ctx context.Context, file *RenderedFile, filename string) (*ShareResult, error) {
	args := m.Called(ctx, file, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ShareResult), args.Error(1)
}

var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestAssembler(client llm.Client, printer Printer) *DocumentAssembler {
	a := NewDocumentAssembler(client, printer)
	a.Now = func() time.Time { return fixedNow }
	return a
}

func contestacionValues() FormValues {
	return FormValues{
		"defendant":  "Juan Pérez",
		"caseNumber": "FAM-001-2024",
		"defenses":   "Niego los hechos",
	}
}

func TestDocumentAssembler_Generate(t *testing.T) {
	require.NoError(t, i18n.Load())

	t.Run("Success", func(t *testing.T) {
		client := new(MockLLMClient)
		client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
			return len(req.Messages) == 2 &&
				req.Messages[0].Content == DocumentSystemPrompt &&
				strings.Contains(req.Messages[1].Content, "Juan Pérez") &&
				req.MaxTokens == 2000 &&
				req.Temperature == 0.3
		})).Return("SEÑOR JUEZ DE FAMILIA...", nil)

		doc, err := newTestAssembler(client, nil).Generate(context.Background(), "contestacion", contestacionValues(), "es")
		require.NoError(t, err)

		assert.Equal(t, "contestacion", doc.TemplateID)
		assert.Equal(t, "Contestación", doc.Title)
		assert.Equal(t, "SEÑOR JUEZ DE FAMILIA...", doc.Content)
		assert.Equal(t, "Juan Pérez", doc.Metadata.Author)
		assert.Equal(t, "FAM-001-2024", doc.Metadata.CaseNumber)
		assert.Equal(t, fixedNow, doc.Metadata.CreatedAt)
		client.AssertExpectations(t)
	})

	t.Run("Author prefers plaintiff", func(t *testing.T) {
		client := new(MockLLMClient)
		client.On("Complete", mock.Anything, mock.Anything).Return("texto", nil)

		doc, err := newTestAssembler(client, nil).Generate(context.Background(), "demanda", FormValues{
			"plaintiff": "María López",
			"defendant": "Juan Pérez",
			"facts":     "Hechos",
		}, "es")
		require.NoError(t, err)
		assert.Equal(t, "María López", doc.Metadata.Author)
		assert.Empty(t, doc.Metadata.CaseNumber)
	})

	t.Run("Author defaults to Usuario", func(t *testing.T) {
		client := new(MockLLMClient)
		client.On("Complete", mock.Anything, mock.Anything).Return("texto", nil)

		doc, err := newTestAssembler(client, nil).Generate(context.Background(), "apelacion", FormValues{
			"appellant":  "Ana",
			"resolution": "Sentencia 12",
			"grievances": "Agravios",
			"legalBasis": "Art. 501",
		}, "es")
		require.NoError(t, err)
		assert.Equal(t, "Usuario", doc.Metadata.Author)
	})

	t.Run("Validation runs before generation", func(t *testing.T) {
		client := new(MockLLMClient)

		_, err := newTestAssembler(client, nil).Generate(context.Background(), "contestacion", FormValues{
			"defendant": "Juan Pérez",
			"defenses":  "   ",
		}, "es")
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"caseNumber", "defenses"}, verr.MissingFields())
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("Unknown template", func(t *testing.T) {
		client := new(MockLLMClient)
		_, err := newTestAssembler(client, nil).Generate(context.Background(), "poder", FormValues{}, "es")
		assert.ErrorIs(t, err, ErrTemplateNotFound)
		client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("Service failure", func(t *testing.T) {
		client := new(MockLLMClient)
		cause := &llm.StatusError{StatusCode: 500}
		client.On("Complete", mock.Anything, mock.Anything).Return("", cause)

		_, err := newTestAssembler(client, nil).Generate(context.Background(), "contestacion", contestacionValues(), "es")
		require.Error(t, err)

		var gerr *GenerationError
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, "No se pudo generar el documento. Por favor intenta más tarde.", gerr.UserMessage)
		assert.ErrorIs(t, err, cause)
		client.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("Blank body", func(t *testing.T) {
		client := new(MockLLMClient)
		client.On("Complete", mock.Anything, mock.Anything).Return("  \n ", nil)

		_, err := newTestAssembler(client, nil).Generate(context.Background(), "contestacion", contestacionValues(), "en")
		assert.True(t, IsGenerationError(err))
		assert.ErrorIs(t, err, llm.ErrEmptyResponse)
	})

	t.Run("No client", func(t *testing.T) {
		_, err := newTestAssembler(nil, nil).Generate(context.Background(), "contestacion", contestacionValues(), "es")
		assert.True(t, IsGenerationError(err))
	})
}

func TestDocumentAssembler_Export(t *testing.T) {
	require.NoError(t, i18n.Load())
	doc := sampleDocument()
	pdf := &RenderedFile{Data: []byte("%PDF-1.4"), ContentType: "application/pdf"}
	wantName := "Contestación_1705312800000.pdf"

	t.Run("Success", func(t *testing.T) {
		printer := new(MockPrinter)
		sharer := new(MockSharer)
		printer.On("RenderToFile", mock.Anything, mock.MatchedBy(func(html string) bool {
			return strings.Contains(html, "Expediente: FAM-001-2024")
		})).Return(pdf, nil)
		sharer.On("Share", mock.Anything, pdf, wantName).
			Return(&ShareResult{Via: ShareViaStorage, Key: "documents/x.pdf", URL: "/uploads/documents/x.pdf"}, nil)

		result, err := newTestAssembler(nil, printer).Export(context.Background(), doc, sharer, "es")
		require.NoError(t, err)
		assert.Equal(t, wantName, result.FileName)
		assert.Equal(t, int64(8), result.Size)
		assert.Equal(t, ShareViaStorage, result.Share.Via)
		printer.AssertExpectations(t)
		sharer.AssertExpectations(t)
	})

	t.Run("Printer failure", func(t *testing.T) {
		printer := new(MockPrinter)
		sharer := new(MockSharer)
		printer.On("RenderToFile", mock.Anything, mock.Anything).Return(nil, errors.New("chrome crashed"))

		_, err := newTestAssembler(nil, printer).Export(context.Background(), doc, sharer, "es")
		var eerr *ExportError
		require.True(t, errors.As(err, &eerr))
		assert.Equal(t, ExportStagePrint, eerr.Stage)
		assert.Equal(t, "No se pudo generar el PDF", eerr.UserMessage)
		sharer.AssertNotCalled(t, "Share", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Sharer failure", func(t *testing.T) {
		printer := new(MockPrinter)
		sharer := new(MockSharer)
		printer.On("RenderToFile", mock.Anything, mock.Anything).Return(pdf, nil)
		sharer.On("Share", mock.Anything, pdf, wantName).Return(nil, errors.New("bucket unavailable"))

		_, err := newTestAssembler(nil, printer).Export(context.Background(), doc, sharer, "en")
		var eerr *ExportError
		require.True(t, errors.As(err, &eerr))
		assert.Equal(t, ExportStageShare, eerr.Stage)
		assert.Equal(t, "Error sharing document", eerr.UserMessage)
		sharer.AssertNumberOfCalls(t, "Share", 1)
	})
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Demanda_1705312800000.pdf", ExportFileName("Demanda", fixedNow))
}

func TestGeneratedDocumentPersistence(t *testing.T) {
	db := setupTestDB(t)
	setTestEncryptionKey(t)

	values := contestacionValues()
	record, err := SaveGeneratedDocument(db, sampleDocument(), values)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NotEmpty(t, record.SealedFormValues)
	assert.False(t, record.IsExported())

	loaded, err := GetGeneratedDocument(db, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contestación", loaded.Title)
	require.NotNil(t, loaded.CaseNumber)
	assert.Equal(t, "FAM-001-2024", *loaded.CaseNumber)

	opened, err := DocumentFormValues(loaded)
	require.NoError(t, err)
	assert.Equal(t, values, opened)

	// Rendering the stored record matches rendering the original
	fromDB, err := RenderDocumentHTML(GeneratedDocumentFromModel(loaded))
	require.NoError(t, err)
	original, err := RenderDocumentHTML(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, original, fromDB)

	result := &ExportResult{
		FileName: "Contestación_1.pdf",
		Share:    &ShareResult{Via: ShareViaStorage, Key: "documents/k.pdf", URL: "https://cdn.example.com/documents/k.pdf"},
	}
	require.NoError(t, MarkDocumentExported(db, loaded, result, fixedNow))

	exported, err := GetGeneratedDocument(db, record.ID)
	require.NoError(t, err)
	assert.True(t, exported.IsExported())
	assert.Equal(t, "documents/k.pdf", exported.StorageKey)
	assert.Equal(t, ShareViaStorage, exported.ExportedVia)

	list, err := ListGeneratedDocuments(db, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = GetGeneratedDocument(db, "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentFormValues_WithoutKey(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("DATA_ENCRYPTION_KEY", "")

	record, err := SaveGeneratedDocument(db, sampleDocument(), contestacionValues())
	require.NoError(t, err)
	assert.Empty(t, record.SealedFormValues)

	values, err := DocumentFormValues(record)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestOpenExportedFile(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	storage := NewLocalStorage(t.TempDir())

	record, err := SaveGeneratedDocument(db, sampleDocument(), nil)
	require.NoError(t, err)

	_, _, err = OpenExportedFile(ctx, storage, record)
	assert.ErrorIs(t, err, ErrFileNotFound)

	sharer := NewStorageSharer(storage, func(filename string) string {
		return GenerateDocumentExportKey(record.ID, filename)
	})
	share, err := sharer.Share(ctx, &RenderedFile{Data: []byte("%PDF-1.4"), ContentType: "application/pdf"}, "Contestación_1.pdf")
	require.NoError(t, err)
	require.NoError(t, MarkDocumentExported(db, record, &ExportResult{FileName: "Contestación_1.pdf", Share: share}, fixedNow))

	exported, err := GetGeneratedDocument(db, record.ID)
	require.NoError(t, err)
	reader, contentType, err := OpenExportedFile(ctx, storage, exported)
	require.NoError(t, err)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "%PDF-1.4", string(body))
}
