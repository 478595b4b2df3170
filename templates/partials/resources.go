package partials

import (
	"context"

	"minerva_app_go/models"
	"minerva_app_go/services/i18n"

	"github.com/a-h/templ"
)

// ResourceList renders directory entries grouped under their category heading
func ResourceList(resources []models.LegalResource) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="resource-list" id="resource-list">`)
		if len(resources) == 0 {
			hw.raw(`<p class="empty">`)
			hw.text(i18n.T(ctx, "resources.empty"))
			hw.raw(`</p>`)
		}

		current := ""
		for _, r := range resources {
			if r.Category != current {
				if current != "" {
					hw.raw(`</ul>`)
				}
				current = r.Category
				hw.raw(`<h3 class="font-bold">`)
				hw.text(i18n.T(ctx, "resources."+r.Category))
				hw.raw(`</h3><ul>`)
			}

			hw.raw(`<li class="resource-item"><strong>`)
			hw.text(r.Name)
			hw.raw(`</strong>`)
			if r.Category == models.ResourceCategoryLibrary {
				hw.raw(`<p>`)
				hw.text(joinNonEmpty(" · ", r.Subtitle, i18n.T(ctx, "resources.articles", map[string]interface{}{"count": r.Articles})))
				hw.raw(`</p>`)
			} else {
				hw.raw(`<p>`)
				hw.text(joinNonEmpty(" · ", r.Address, r.Phone, r.Hours))
				hw.raw(`</p>`)
			}
			hw.raw(`</li>`)
		}
		if current != "" {
			hw.raw(`</ul>`)
		}
		hw.raw(`</div>`)
	})
}
