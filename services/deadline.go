package services

import (
	"math"
	"strings"
	"time"

	"minerva_app_go/models"
)

// CaseTypeRule maps a procedural case type to its statutory term in business days
type CaseTypeRule struct {
	Code         string `json:"code"`
	BusinessDays int    `json:"business_days"`
	Description  string `json:"description"`
}

// DeadlineResult is the outcome of a deadline calculation
type DeadlineResult struct {
	DueDate     time.Time    `json:"due_date"`
	Description string       `json:"description"`
	Rule        CaseTypeRule `json:"rule"`
}

// DefaultCaseTypeRule applies to any code missing from the rule table
var DefaultCaseTypeRule = CaseTypeRule{Code: "default", BusinessDays: 5, Description: "Generic deadline"}

// caseTypeRuleOrder fixes the listing order of the rule table
var caseTypeRuleOrder = []string{"contestacion", "apelacion", "casacion", "amparo", "revision"}

// caseTypeRules is read-only after package init
var caseTypeRules = map[string]CaseTypeRule{
	"contestacion": {Code: "contestacion", BusinessDays: 3, Description: "Deadline to answer a lawsuit"},
	"apelacion":    {Code: "apelacion", BusinessDays: 3, Description: "Deadline to appeal"},
	"casacion":     {Code: "casacion", BusinessDays: 15, Description: "Deadline for cassation"},
	"amparo":       {Code: "amparo", BusinessDays: 3, Description: "Deadline for constitutional relief petition"},
	"revision":     {Code: "revision", BusinessDays: 8, Description: "Deadline for review"},
}

// CaseTypeRules returns a copy of the rule table in display order
func CaseTypeRules() []CaseTypeRule {
	rules := make([]CaseTypeRule, 0, len(caseTypeRuleOrder))
	for _, code := range caseTypeRuleOrder {
		rules = append(rules, caseTypeRules[code])
	}
	return rules
}

// LookupCaseTypeRule finds the rule for code, ignoring case and surrounding spaces.
// The default rule is returned with ok=false when nothing matches.
func LookupCaseTypeRule(code string) (CaseTypeRule, bool) {
	rule, ok := caseTypeRules[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return DefaultCaseTypeRule, false
	}
	return rule, true
}

// ComputeDeadline adds the business days of the case type rule to startDate.
// Public holidays are not modelled; only Saturdays and Sundays are skipped.
func ComputeDeadline(caseTypeCode string, startDate time.Time) DeadlineResult {
	rule, _ := LookupCaseTypeRule(caseTypeCode)
	return DeadlineResult{
		DueDate:     AddBusinessDays(startDate, rule.BusinessDays),
		Description: rule.Description,
		Rule:        rule,
	}
}

// IsBusinessDay reports whether t falls on Monday through Friday
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// AddBusinessDays steps forward one calendar day at a time from start and
// returns the day on which the n-th business day is reached. start itself
// is never counted. The time of day and location of start are preserved.
func AddBusinessDays(start time.Time, n int) time.Time {
	current := start
	for added := 0; added < n; {
		current = current.AddDate(0, 0, 1)
		if IsBusinessDay(current) {
			added++
		}
	}
	return current
}

// BusinessDaysBetween counts business days in the half-open range (from, to]
func BusinessDaysBetween(from, to time.Time) int {
	count := 0
	current := CivilDate(from)
	end := CivilDate(to)
	for current.Before(end) {
		current = current.AddDate(0, 0, 1)
		if IsBusinessDay(current) {
			count++
		}
	}
	return count
}

// DaysLeft returns the number of calendar days from now until due.
// due is a calendar date; now is read on its own clock.
// Overdue deadlines give a negative value.
func DaysLeft(due, now time.Time) int {
	d := CivilDate(due)
	n := CivilDate(now)
	return int(math.Round(d.Sub(n).Hours() / 24))
}

// DeadlinePriority classifies a deadline by its remaining calendar days
func DeadlinePriority(daysLeft int) string {
	switch {
	case daysLeft <= 3:
		return models.DeadlinePriorityUrgent
	case daysLeft <= 10:
		return models.DeadlinePriorityMedium
	default:
		return models.DeadlinePriorityLow
	}
}

// CivilDate returns the calendar date of t, as seen in t's own location,
// at midnight UTC. Deadlines store their dates this way.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
