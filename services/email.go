package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"minerva_app_go/config"
	"minerva_app_go/models"
	"minerva_app_go/services/i18n"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Email represents an email message
type Email struct {
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Attachment is a file sent along with an email
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	return SendEmailContext(context.Background(), cfg, email)
}

// SendEmailContext sends an email using Resend API, honouring ctx
func SendEmailContext(ctx context.Context, cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	for _, a := range email.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Content:     a.Content,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}

	sent, err := client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	zap.L().Info("Email sent via Resend", zap.String("id", sent.Id), zap.Strings("to", email.To))
	return nil
}

// logEmailToConsole logs email details in development mode
func logEmailToConsole(email *Email) {
	attachments := make([]string, 0, len(email.Attachments))
	for _, a := range email.Attachments {
		attachments = append(attachments, fmt.Sprintf("%s (%d bytes)", a.Filename, len(a.Content)))
	}

	zap.L().Info("Email logged (development mode - not actually sent)",
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("text", email.TextBody),
		zap.String("html_preview", truncate(email.HTMLBody, 500)),
		zap.Strings("attachments", attachments),
	)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email in a goroutine so handlers are not blocked
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:          append([]string{}, email.To...),
		Subject:     email.Subject,
		HTMLBody:    email.HTMLBody,
		TextBody:    email.TextBody,
		Attachments: append([]Attachment{}, email.Attachments...),
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			zap.L().Error("Error sending async email", zap.Error(err))
		}
	}(cfg, emailCopy)
}

var emailLayout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937; line-height: 1.5;">
  <h2 style="color: #1e3a8a;">{{.Heading}}</h2>
  {{range .Paragraphs}}<p>{{.}}</p>{{end}}
  <p style="font-size: 12px; color: #6b7280;">Minerva - Asistente Legal</p>
</body>
</html>
`))

// renderEmailHTML wraps plain text paragraphs in the shared email layout
func renderEmailHTML(heading, text string) string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var buf bytes.Buffer
	if err := emailLayout.Execute(&buf, struct {
		Heading    string
		Paragraphs []string
	}{heading, paragraphs}); err != nil {
		zap.L().Warn("Failed to render email layout", zap.Error(err))
		return ""
	}
	return buf.String()
}

// BuildDeadlineReminderEmail creates the reminder sent before a deadline is due
func BuildDeadlineReminderEmail(to string, deadline *models.Deadline, lang string) *Email {
	args := map[string]interface{}{
		"title": deadline.Title,
		"date":  FormatDateES(deadline.DueDate),
	}
	subject := i18n.Translate(lang, "email.subject.deadline_reminder", args)
	text := i18n.Translate(lang, "email.deadline_reminder.body", args)

	return &Email{
		To:       []string{to},
		Subject:  subject,
		TextBody: text,
		HTMLBody: renderEmailHTML(subject, text),
	}
}

// BuildDocumentExportEmail creates the email that carries an exported document
func BuildDocumentExportEmail(to, title string, file *RenderedFile, filename, lang string) *Email {
	args := map[string]interface{}{"title": title}
	subject := i18n.Translate(lang, "documents.email.subject", args)
	text := i18n.Translate(lang, "documents.email.body", args)

	return &Email{
		To:       []string{to},
		Subject:  subject,
		TextBody: text,
		HTMLBody: renderEmailHTML(subject, text),
		Attachments: []Attachment{{
			Filename:    filename,
			ContentType: file.ContentType,
			Content:     file.Data,
		}},
	}
}
