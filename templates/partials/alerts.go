package partials

import (
	"context"

	"github.com/a-h/templ"
)

// ErrorAlert shows a failure message with an optional list of details
func ErrorAlert(message string, details []string) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="alert alert-error" role="alert"><p>`)
		hw.text(message)
		hw.raw(`</p>`)
		if len(details) > 0 {
			hw.raw(`<ul>`)
			for _, d := range details {
				hw.raw(`<li>`)
				hw.text(d)
				hw.raw(`</li>`)
			}
			hw.raw(`</ul>`)
		}
		hw.raw(`</div>`)
	})
}

// SuccessAlert shows a confirmation message
func SuccessAlert(message string) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="alert alert-success" role="status">`)
		hw.text(message)
		hw.raw(`</div>`)
	})
}
