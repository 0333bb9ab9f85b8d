package classify

import (
	"testing"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

func TestExtractInvoiceFields(t *testing.T) {
	info := ExtractKeyInformation("GST Invoice No: INV-2024-001 Total: ₹1,234.50", "Invoice")

	num, ok := info["invoice_number"]
	if !ok || num.Text != "INV-2024-001" {
		t.Fatalf("invoice_number = %+v, want INV-2024-001", num)
	}
	amount, ok := info["amount"]
	if !ok || amount.Text != "1,234.50" {
		t.Fatalf("amount = %+v, want 1,234.50", amount)
	}
}

func TestExtractInvoiceBillFallback(t *testing.T) {
	info := ExtractKeyInformation("Bill number: B-77/2024, sum: 500", "Invoice")

	if got := info["invoice_number"].Text; got != "B-77/2024" {
		t.Fatalf("invoice_number = %q, want B-77/2024", got)
	}
	if got := info["amount"].Text; got != "500" {
		t.Fatalf("amount = %q, want 500", got)
	}
}

func TestExtractInvoiceMalformedAmountOmitted(t *testing.T) {
	info := ExtractKeyInformation("Total: ,,,", "Invoice")
	if _, ok := info["amount"]; ok {
		t.Fatalf("malformed amount should be omitted, got %+v", info["amount"])
	}
}

func TestExtractSafetyNoticeFields(t *testing.T) {
	text := "URGENT: fire drill on 12/03/2024 and again on 15-03-2024."
	info := ExtractKeyInformation(text, "Safety Notice")

	dates, ok := info["dates"]
	if !ok || !dates.IsList() {
		t.Fatalf("dates = %+v, want a list", dates)
	}
	if len(dates.List) != 2 || dates.List[0] != "12/03/2024" || dates.List[1] != "15-03-2024" {
		t.Fatalf("dates = %v", dates.List)
	}
	if got := info["urgency"].Text; got != "urgent" {
		t.Fatalf("urgency = %q, want urgent", got)
	}
}

func TestExtractSafetyNoticeUrgencyOrder(t *testing.T) {
	// "urgent" precedes "critical" in the severity list even when "critical"
	// appears first in the text.
	info := ExtractKeyInformation("critical failure, urgent response required", "Safety Notice")
	if got := info["urgency"].Text; got != "urgent" {
		t.Fatalf("urgency = %q, want urgent", got)
	}
}

func TestExtractSafetyNoticeMonthNameDates(t *testing.T) {
	info := ExtractKeyInformation("inspection on 5 Mar 2024", "Safety Notice")
	dates := info["dates"]
	if !dates.IsList() || len(dates.List) != 1 || dates.List[0] != "5 Mar 2024" {
		t.Fatalf("dates = %+v", dates)
	}
}

func TestExtractJobCardFields(t *testing.T) {
	info := ExtractKeyInformation("Job Card: JC-118 escalator repair", "Job Card")
	if got := info["job_number"].Text; got != "JC-118" {
		t.Fatalf("job_number = %q, want JC-118", got)
	}

	info = ExtractKeyInformation("Work order: WO/2024/55", "Job Card")
	if got := info["job_number"].Text; got != "WO/2024/55" {
		t.Fatalf("job_number = %q, want WO/2024/55", got)
	}
}

func TestExtractUnmatchedFieldsOmitted(t *testing.T) {
	info := ExtractKeyInformation("no identifiers here", "Job Card")
	if len(info) != 0 {
		t.Fatalf("expected empty mapping, got %v", info)
	}
}

func TestExtractOtherCategoriesEmpty(t *testing.T) {
	for _, category := range []string{"HR Policy", "Engineering Drawing", domain.CategoryUnknown, ""} {
		info := ExtractKeyInformation("Invoice No: INV-1 urgent 12/03/2024", category)
		if len(info) != 0 {
			t.Fatalf("category %q should extract nothing, got %v", category, info)
		}
	}
}
