package partials

import (
	"context"

	"minerva_app_go/models"
	"minerva_app_go/services"
	"minerva_app_go/services/i18n"
	"minerva_app_go/templates/components"

	"github.com/a-h/templ"
)

// DocumentCard shows a generated document with preview and export actions
func DocumentCard(record models.GeneratedDocument) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		id := templ.EscapeString(record.ID)
		caseNumber := ""
		if record.CaseNumber != nil {
			caseNumber = *record.CaseNumber
		}

		hw.raw(`<div class="card document-card" id="document-`, id, `"><div class="card-body"><h3 class="card-title">`)
		hw.text(record.Title)
		hw.raw(`</h3><p class="text-sm">`)
		hw.text(joinNonEmpty(" · ", record.Author, caseNumber, services.FormatDateES(record.CreatedAt)))
		hw.raw(`</p><div class="card-actions">`)
		hw.raw(`<a class="btn btn-ghost btn-sm" target="_blank" href="/api/documents/`, id, `/preview">`)
		hw.text(i18n.T(ctx, "documents.preview"))
		hw.raw(`</a>`)
		hw.raw(`<button class="btn btn-primary btn-sm" hx-post="/api/documents/`, id, `/export" hx-vals='`,
			templ.EscapeString(components.JSON(map[string]string{"via": services.ShareViaStorage})),
			`' hx-target="#export-`, id, `">`)
		hw.text(i18n.T(ctx, "documents.download"))
		hw.raw(`</button></div><div id="export-`, id, `"></div></div></div>`)
	})
}

// DocumentList renders generated documents, newest first
func DocumentList(records []models.GeneratedDocument) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="document-list" id="document-list">`)
		if len(records) == 0 {
			hw.raw(`<p class="empty">`)
			hw.text(i18n.T(ctx, "documents.empty"))
			hw.raw(`</p>`)
		}
		for _, r := range records {
			if hw.err != nil {
				return
			}
			hw.err = DocumentCard(r).Render(ctx, hw.w)
		}
		hw.raw(`</div>`)
	})
}

// ExportResult confirms a finished export with its download link or recipient
func ExportResult(result *services.ExportResult) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="alert alert-success" role="status"><p>`)
		hw.text(i18n.T(ctx, "documents.exported") + ": " + result.FileName + " (" + formatFileSize(result.Size) + ")")
		hw.raw(`</p>`)
		if result.Share != nil {
			switch {
			case result.Share.URL != "":
				hw.raw(`<a class="link" target="_blank" href="`, templ.EscapeString(string(templ.URL(result.Share.URL))), `">`)
				hw.text(i18n.T(ctx, "documents.download"))
				hw.raw(`</a>`)
			case result.Share.Recipient != "":
				hw.raw(`<p>`)
				hw.text(i18n.T(ctx, "documents.sent_to", map[string]interface{}{"email": result.Share.Recipient}))
				hw.raw(`</p>`)
			}
		}
		hw.raw(`</div>`)
	})
}
