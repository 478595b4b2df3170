package services

import (
	"context"
	"testing"

	"minerva_app_go/config"
	"minerva_app_go/models"
	"minerva_app_go/services/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail_TestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}
	email := &Email{To: []string{"ana@example.com"}, Subject: "Hola", TextBody: "Cuerpo"}
	assert.NoError(t, SendEmail(cfg, email))
}

func TestSendEmail_Validation(t *testing.T) {
	t.Run("Missing API key", func(t *testing.T) {
		cfg := &config.Config{EmailTestMode: false}
		err := SendEmail(cfg, &Email{To: []string{"a@b.com"}, TextBody: "x"})
		assert.EqualError(t, err, "RESEND_API_KEY not configured")
	})

	t.Run("Missing body", func(t *testing.T) {
		cfg := &config.Config{EmailTestMode: false, ResendAPIKey: "re_test"}
		err := SendEmail(cfg, &Email{To: []string{"a@b.com"}, Subject: "x"})
		assert.EqualError(t, err, "email must have either HTMLBody or TextBody")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}

func TestBuildDeadlineReminderEmail(t *testing.T) {
	require.NoError(t, i18n.Load())
	d := &models.Deadline{Title: "Contestar demanda", DueDate: day(2024, 1, 18)}

	email := BuildDeadlineReminderEmail("ana@example.com", d, "es")
	assert.Equal(t, []string{"ana@example.com"}, email.To)
	assert.Equal(t, "Recordatorio: Contestar demanda vence el 18/1/2024", email.Subject)
	assert.Contains(t, email.TextBody, "\"Contestar demanda\" vence el 18/1/2024")
	assert.Contains(t, email.HTMLBody, "<h2 style=\"color: #1e3a8a;\">Recordatorio: Contestar demanda vence el 18/1/2024</h2>")
}

func TestBuildDocumentExportEmail(t *testing.T) {
	require.NoError(t, i18n.Load())
	file := &RenderedFile{Data: []byte("%PDF"), ContentType: "application/pdf"}

	email := BuildDocumentExportEmail("ana@example.com", "Demanda", file, "Demanda_1.pdf", "en")
	assert.Equal(t, "Your document: Demanda", email.Subject)
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "Demanda_1.pdf", email.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", email.Attachments[0].ContentType)
	// HTML escapes the quotes around the title
	assert.Contains(t, email.HTMLBody, "&#34;Demanda&#34;")
}

func TestEmailSharer(t *testing.T) {
	require.NoError(t, i18n.Load())
	file := &RenderedFile{Data: []byte("%PDF"), ContentType: "application/pdf"}

	t.Run("Test mode", func(t *testing.T) {
		sharer := &EmailSharer{Config: &config.Config{EmailTestMode: true}, To: "ana@example.com", Title: "Demanda", Lang: "es"}
		result, err := sharer.Share(context.Background(), file, "Demanda_1.pdf")
		require.NoError(t, err)
		assert.Equal(t, ShareViaEmail, result.Via)
		assert.Equal(t, "ana@example.com", result.Recipient)
	})

	t.Run("Recipient required", func(t *testing.T) {
		sharer := &EmailSharer{Config: &config.Config{EmailTestMode: true}}
		_, err := sharer.Share(context.Background(), file, "Demanda_1.pdf")
		assert.Error(t, err)
	})
}

func TestStorageSharer(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())
	file := &RenderedFile{Data: []byte("%PDF-1.4"), ContentType: "application/pdf"}

	sharer := NewStorageSharer(storage, func(filename string) string {
		return GenerateDocumentExportKey("doc-1", filename)
	})
	result, err := sharer.Share(context.Background(), file, "Demanda_1.pdf")
	require.NoError(t, err)

	assert.Equal(t, ShareViaStorage, result.Via)
	assert.Contains(t, result.Key, "documents/doc-1/")
	assert.Contains(t, result.URL, result.Key)

	_, contentType, err := storage.Get(context.Background(), result.Key)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)

	_, err = NewStorageSharer(nil, nil).Share(context.Background(), file, "x.pdf")
	assert.Error(t, err)
}
