package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"minerva_app_go/models"

	"github.com/microcosm-cc/bluemonday"
)

// DocumentMetadata is the non-body information shown in the document shell
type DocumentMetadata struct {
	CreatedAt  time.Time `json:"created_at"`
	Author     string    `json:"author"`
	CaseNumber string    `json:"case_number,omitempty"`
}

// GeneratedDocument is the immutable result of one successful generation call
type GeneratedDocument struct {
	TemplateID string           `json:"template_id"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	Metadata   DocumentMetadata `json:"metadata"`
}

// ToModel converts the document into its database record
func (d GeneratedDocument) ToModel() *models.GeneratedDocument {
	record := &models.GeneratedDocument{
		TemplateID: d.TemplateID,
		Title:      d.Title,
		Content:    d.Content,
		Author:     d.Metadata.Author,
		CreatedAt:  d.Metadata.CreatedAt,
	}
	if d.Metadata.CaseNumber != "" {
		caseNumber := d.Metadata.CaseNumber
		record.CaseNumber = &caseNumber
	}
	return record
}

// GeneratedDocumentFromModel rebuilds the render input from a stored record
func GeneratedDocumentFromModel(record *models.GeneratedDocument) GeneratedDocument {
	doc := GeneratedDocument{
		TemplateID: record.TemplateID,
		Title:      record.Title,
		Content:    record.Content,
		Metadata: DocumentMetadata{
			CreatedAt: record.CreatedAt,
			Author:    record.Author,
		},
	}
	if record.CaseNumber != nil {
		doc.Metadata.CaseNumber = *record.CaseNumber
	}
	return doc
}

// Jurisdiction is printed under the document title
const Jurisdiction = "República de El Salvador"

// DocumentDisclaimer is printed in the footer of every document
const DocumentDisclaimer = "Este documento es solo informativo y no constituye asesoría legal profesional"

// bodyPolicy admits only the line breaks added by renderBody.
// Policies are safe for concurrent use.
var bodyPolicy = bluemonday.NewPolicy().AllowElements("br")

var documentShell = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        @page {
            margin: 2cm;
        }
        body {
            font-family: "Times New Roman", Times, serif;
            font-size: 12pt;
            line-height: 1.6;
            color: #000;
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
            border-bottom: 2px solid #000;
            padding-bottom: 20px;
        }
        .title {
            font-size: 16pt;
            font-weight: bold;
            text-transform: uppercase;
            margin-bottom: 10px;
        }
        .subtitle {
            font-size: 14pt;
            margin-bottom: 5px;
        }
        .content {
            text-align: justify;
            margin-bottom: 30px;
        }
        .signature-line {
            margin-top: 50px;
            text-align: center;
        }
        .signature-line::before {
            content: '';
            display: inline-block;
            width: 200px;
            border-bottom: 1px solid #000;
            margin-bottom: 5px;
        }
        .footer {
            margin-top: 50px;
            text-align: center;
            font-size: 10pt;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="title">{{.Title}}</div>
        <div class="subtitle">{{.Jurisdiction}}</div>
{{- if .CaseNumber}}
        <div class="case-number">Expediente: {{.CaseNumber}}</div>
{{- end}}
    </div>

    <div class="content">
        {{.Body}}
    </div>

    <div class="signature-line">
        <div>Firma del Solicitante</div>
    </div>

    <div class="footer">
        <p>Documento generado por Minerva - Asistente Legal</p>
        <p>Fecha de generación: {{.GeneratedOn}}</p>
        <p><em>{{.Disclaimer}}</em></p>
    </div>
</body>
</html>
`))

type documentShellData struct {
	Title        string
	Jurisdiction string
	CaseNumber   string
	Body         template.HTML
	GeneratedOn  string
	Disclaimer   string
}

// RenderDocumentHTML wraps the generated body in the fixed legal document
// layout. Rendering the same document always yields the same bytes.
func RenderDocumentHTML(doc GeneratedDocument) (string, error) {
	data := documentShellData{
		Title:        doc.Title,
		Jurisdiction: Jurisdiction,
		CaseNumber:   strings.TrimSpace(doc.Metadata.CaseNumber),
		Body:         renderBody(doc.Content),
		GeneratedOn:  FormatDateES(doc.Metadata.CreatedAt),
		Disclaimer:   DocumentDisclaimer,
	}

	var buf bytes.Buffer
	if err := documentShell.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render document %s: %w", doc.TemplateID, err)
	}
	return buf.String(), nil
}

// renderBody treats content as plain text: it is escaped, line breaks
// become <br>, and the result is sanitised
func renderBody(content string) template.HTML {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	escaped := template.HTMLEscapeString(content)
	formatted := strings.ReplaceAll(escaped, "\n", "<br>")
	return template.HTML(bodyPolicy.Sanitize(formatted))
}

// FormatDateES formats a date the way es-SV short dates read (d/m/yyyy)
func FormatDateES(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}
