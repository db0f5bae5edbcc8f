package domain

import (
	"fmt"
	"strings"
)

// Titles of the utility notes kept in the root folder.
const (
	NewExpensesTitle       = "new-expenses"
	RecurringExpensesTitle = "recurring-expenses"
)

const expenseTableHeader = `| price | description | category | date | shop | attachment | recurring |
| ----- | ----------- | -------- | ---- | ---- | ---------- | --------- |`

const recurringTableHeader = `| price | description | category | date | shop | attachment | recurring | lastProcessed | nextDue | enabled | sourceNoteId |
| ----- | ----------- | -------- | ---- | ---- | ---------- | --------- | ------------- | ------- | ------- | ------------ |`

// MonthNoteTemplate returns the initial body for a month note: the
// expense table followed by the bounded monthly-summary marker region
// that the summary renderer fills in later.
func MonthNoteTemplate(month int) string {
	title := MonthTitle(month)
	return fmt.Sprintf("# %s\n\n%s\n\n%s\n%s\n", title, expenseTableHeader, monthlyMarkerOpen(title), monthlyMarkerClose)
}

// NewExpensesTemplate returns the initial body for the new-expenses inbox note.
func NewExpensesTemplate() string {
	return fmt.Sprintf("# %s\n\n%s\n", NewExpensesTitle, expenseTableHeader)
}

// RecurringExpensesTemplate returns the initial body for the
// recurring-expenses template note, which carries extra bookkeeping columns.
func RecurringExpensesTemplate() string {
	return fmt.Sprintf("# %s\n\n%s\n", RecurringExpensesTitle, recurringTableHeader)
}

// AnnualSummaryTemplate returns the initial body for the annual summary
// note, containing the bounded marker region that the summary renderer
// and the month-link rewrite both operate on.
func AnnualSummaryTemplate(year string) string {
	return fmt.Sprintf("# %s\n\n%s\n%s\n", year, annualMarkerOpen(year), annualMarkerClose)
}

func annualMarkerOpen(year string) string {
	return `<!-- expenses-summary-annual year="` + year + `" -->`
}

const annualMarkerClose = `<!-- /expenses-summary-annual -->`

func monthlyMarkerOpen(month string) string {
	return `<!-- expenses-summary-monthly month="` + month + `" -->`
}

const monthlyMarkerClose = `<!-- /expenses-summary-monthly -->`

// MonthLinkList renders one link line per month pointing at the month
// note. Months whose id is unknown get a placeholder link.
func MonthLinkList(monthIDs [12]string) string {
	var b strings.Builder
	for i, id := range monthIDs {
		title := MonthTitle(i + 1)
		if id == "" {
			fmt.Fprintf(&b, "- [%s](#)\n", title)
			continue
		}
		fmt.Fprintf(&b, "- [%s](:/%s)\n", title, id)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ReplaceAnnualSummarySection replaces the content between the annual
// summary markers with section, keeping the markers themselves verbatim.
// The second return value reports whether the marker pair was found; the
// body is returned unchanged when it was not.
func ReplaceAnnualSummarySection(body, year, section string) (string, bool) {
	open := annualMarkerOpen(year)
	start := strings.Index(body, open)
	if start < 0 {
		return body, false
	}
	rest := body[start+len(open):]
	end := strings.Index(rest, annualMarkerClose)
	if end < 0 {
		return body, false
	}

	var b strings.Builder
	b.WriteString(body[:start])
	b.WriteString(open)
	b.WriteString("\n")
	if section != "" {
		b.WriteString(section)
		b.WriteString("\n")
	}
	b.WriteString(rest[end:])
	return b.String(), true
}
