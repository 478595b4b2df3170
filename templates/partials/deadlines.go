package partials

import (
	"context"
	"fmt"

	"minerva_app_go/services"
	"minerva_app_go/services/i18n"

	"github.com/a-h/templ"
)

// DeadlineResult shows the outcome of a deadline calculation
func DeadlineResult(result services.DeadlineResult, daysLeft int, priority string) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<div class="card deadline-result" id="deadline-result"><div class="card-body">`)
		hw.raw(`<p class="text-sm">`)
		hw.text(result.Description)
		hw.raw(`</p><h3 class="text-xl font-bold">`)
		hw.text(i18n.T(ctx, "deadlines.due") + ": " + services.FormatDateES(result.DueDate))
		hw.raw(`</h3><p>`)
		hw.text(fmt.Sprintf("%d %s", result.Rule.BusinessDays, i18n.T(ctx, "deadlines.business_days")))
		hw.raw(`</p>`)
		writePriorityBadge(ctx, hw, daysLeft, priority)
		hw.raw(`</div></div>`)
	})
}

// DeadlineList renders tracked deadlines, most urgent first
func DeadlineList(views []services.DeadlineView) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<ul class="deadline-list" id="deadline-list">`)
		if len(views) == 0 {
			hw.raw(`<li class="empty">`)
			hw.text(i18n.T(ctx, "deadlines.empty"))
			hw.raw(`</li>`)
		}
		for _, v := range views {
			writeDeadlineItem(ctx, hw, v)
		}
		hw.raw(`</ul>`)
	})
}

// DeadlineItem renders one tracked deadline row
func DeadlineItem(view services.DeadlineView) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		writeDeadlineItem(ctx, hw, view)
	})
}

func writeDeadlineItem(ctx context.Context, hw *htmlWriter, v services.DeadlineView) {
	caseNumber := ""
	if v.CaseNumber != nil {
		caseNumber = *v.CaseNumber
	}

	hw.raw(`<li class="deadline-item" id="deadline-`, templ.EscapeString(v.ID), `"><div><strong>`)
	hw.text(v.Title)
	hw.raw(`</strong><p class="text-sm">`)
	hw.text(joinNonEmpty(" · ", caseNumber, v.Description))
	hw.raw(`</p><p>`)
	hw.text(i18n.T(ctx, "deadlines.due") + ": " + services.FormatDateES(v.DueDate))
	hw.raw(`</p></div>`)
	writePriorityBadge(ctx, hw, v.DaysLeft, v.Priority)
	hw.raw(`<button class="btn btn-ghost btn-sm" hx-post="/api/deadlines/`, templ.EscapeString(v.ID), `/calendar" hx-swap="none">`)
	hw.text(i18n.T(ctx, "deadlines.add_to_calendar"))
	hw.raw(`</button></li>`)
}

func writePriorityBadge(ctx context.Context, hw *htmlWriter, daysLeft int, priority string) {
	hw.raw(`<span class="`, priorityClass(priority), `">`)
	hw.text(fmt.Sprintf("%s · %d %s", i18n.T(ctx, "deadlines.priority."+priority), daysLeft, i18n.T(ctx, "deadlines.days_left")))
	hw.raw(`</span>`)
}
