package domain

import (
	"strings"
	"testing"
)

func TestAnnualSummaryTemplateCarriesMarkers(t *testing.T) {
	body := AnnualSummaryTemplate("2025")
	if !strings.Contains(body, `<!-- expenses-summary-annual year="2025" -->`) {
		t.Error("missing opening marker")
	}
	if !strings.Contains(body, `<!-- /expenses-summary-annual -->`) {
		t.Error("missing closing marker")
	}
}

func TestMonthNoteTemplateCarriesMarkers(t *testing.T) {
	for month := 1; month <= 12; month++ {
		body := MonthNoteTemplate(month)
		open := `<!-- expenses-summary-monthly month="` + MonthTitle(month) + `" -->`
		if got := strings.Count(body, open); got != 1 {
			t.Errorf("month %02d: opening marker occurs %d times", month, got)
		}
		if got := strings.Count(body, `<!-- /expenses-summary-monthly -->`); got != 1 {
			t.Errorf("month %02d: closing marker occurs %d times", month, got)
		}
		if strings.Index(body, open) > strings.Index(body, `<!-- /expenses-summary-monthly -->`) {
			t.Errorf("month %02d: markers out of order:\n%s", month, body)
		}
	}
}

func TestMonthLinkList(t *testing.T) {
	var ids [12]string
	for i := range ids {
		ids[i] = "n" + MonthTitle(i+1)
	}
	ids[6] = ""

	list := MonthLinkList(ids)
	if !strings.Contains(list, "- [01](:/n01)") {
		t.Errorf("missing month link:\n%s", list)
	}
	if !strings.Contains(list, "- [07](#)") {
		t.Errorf("missing placeholder for unknown month id:\n%s", list)
	}
	if got := strings.Count(list, "\n"); got != 11 {
		t.Errorf("expected 12 lines, got %d newlines", got)
	}
}

func TestReplaceAnnualSummarySection(t *testing.T) {
	body := AnnualSummaryTemplate("2025")

	first, found := ReplaceAnnualSummarySection(body, "2025", "- [01](:/a)")
	if !found {
		t.Fatal("markers not found in freshly templated body")
	}
	if !strings.Contains(first, "- [01](:/a)") {
		t.Errorf("section not inserted:\n%s", first)
	}

	// Replacing again must swap the region, not grow it.
	second, found := ReplaceAnnualSummarySection(first, "2025", "- [01](:/b)")
	if !found {
		t.Fatal("markers lost after first replacement")
	}
	if strings.Contains(second, "(:/a)") {
		t.Errorf("stale section content survived:\n%s", second)
	}
	if got := strings.Count(second, `<!-- expenses-summary-annual year="2025" -->`); got != 1 {
		t.Errorf("marker duplicated: %d occurrences", got)
	}

	if _, found := ReplaceAnnualSummarySection("no markers here", "2025", "x"); found {
		t.Error("reported markers in a body without them")
	}
}

func TestTemplatesShareColumnOrder(t *testing.T) {
	header := "| price | description | category | date | shop | attachment | recurring |"
	for name, body := range map[string]string{
		"month":        MonthNoteTemplate(1),
		"new-expenses": NewExpensesTemplate(),
	} {
		if !strings.Contains(body, header) {
			t.Errorf("%s template missing standard header", name)
		}
	}
	if !strings.Contains(RecurringExpensesTemplate(), header+" lastProcessed | nextDue | enabled | sourceNoteId |") {
		t.Error("recurring template missing extended header")
	}
}
