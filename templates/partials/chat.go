package partials

import (
	"context"
	"strings"

	"minerva_app_go/services"

	"github.com/a-h/templ"
)

// ChatMessage renders one assistant reply with its citations and suggestions
func ChatMessage(resp services.ChatResponse) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="chat chat-start"><div class="chat-bubble">`)
		for i, line := range strings.Split(resp.Message, "\n") {
			if i > 0 {
				hw.raw(`<br>`)
			}
			hw.text(line)
		}
		hw.raw(`</div>`)
		if len(resp.Citations) > 0 {
			hw.raw(`<div class="chat-footer citations">`)
			for _, c := range resp.Citations {
				hw.raw(`<span class="badge badge-outline">`)
				hw.text(c)
				hw.raw(`</span>`)
			}
			hw.raw(`</div>`)
		}
		if len(resp.SuggestedActions) > 0 {
			hw.raw(`<ul class="chat-footer suggestions">`)
			for _, a := range resp.SuggestedActions {
				hw.raw(`<li>`)
				hw.text(a)
				hw.raw(`</li>`)
			}
			hw.raw(`</ul>`)
		}
		hw.raw(`</div>`)
	})
}
