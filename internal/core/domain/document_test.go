package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func TestNormalizePriority(t *testing.T) {
	cases := map[string]Priority{
		"High":     PriorityHigh,
		"Medium":   PriorityMedium,
		"Low":      PriorityLow,
		"":         PriorityMedium,
		"CRITICAL": PriorityMedium,
		"high":     PriorityMedium,
	}
	for raw, want := range cases {
		if got := NormalizePriority(raw); got != want {
			t.Fatalf("NormalizePriority(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestFieldValueJSONRoundTrip(t *testing.T) {
	info := KeyInformation{
		"invoice_number": StringValue("INV-2024-001"),
		"dates":          ListValue("12/03/2024", "15/03/2024"),
	}

	raw, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded KeyInformation
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	num := decoded["invoice_number"]
	if num.IsList() || num.Text != "INV-2024-001" {
		t.Fatalf("invoice_number round trip failed: %+v", num)
	}
	dates := decoded["dates"]
	if !dates.IsList() || len(dates.List) != 2 || dates.List[0] != "12/03/2024" {
		t.Fatalf("dates round trip failed: %+v", dates)
	}
}

func TestFieldValueEncodesAsBareStringOrArray(t *testing.T) {
	raw, err := json.Marshal(StringValue("abc"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"abc"` {
		t.Fatalf("expected bare string, got %s", raw)
	}

	raw, err = json.Marshal(ListValue("a", "b"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `["a","b"]` {
		t.Fatalf("expected bare array, got %s", raw)
	}
}

func TestDocumentCloneIsIndependent(t *testing.T) {
	doc := Document{
		ID:          "d1",
		ActionItems: []string{"inspect track"},
		KeyInformation: KeyInformation{
			"dates": ListValue("1/1/2024"),
		},
	}

	clone := doc.Clone()
	clone.ActionItems[0] = "changed"
	clone.KeyInformation["dates"].List[0] = "changed"

	if doc.ActionItems[0] != "inspect track" {
		t.Fatalf("clone shares action items slice")
	}
	if doc.KeyInformation["dates"].List[0] != "1/1/2024" {
		t.Fatalf("clone shares key information")
	}
}

func TestInsightsNormalize(t *testing.T) {
	got := Insights{Summary: "s", Priority: "Unknown"}.Normalize()
	if got.ActionItems == nil || got.Deadlines == nil || got.Risks == nil {
		t.Fatalf("nil sequences should become empty: %+v", got)
	}
	if got.Priority != string(PriorityMedium) {
		t.Fatalf("unrecognized priority should default to Medium, got %s", got.Priority)
	}
}

func TestSummarizeAuditGroupsByActionAndDay(t *testing.T) {
	entries := []AuditEntry{
		{Action: ActionUpload, Timestamp: mustTime(t, "2026-08-30T10:00:00Z")},
		{Action: ActionUpload, Timestamp: mustTime(t, "2026-08-30T11:00:00Z")},
		{Action: ActionSearch, Timestamp: mustTime(t, "2026-08-31T09:00:00Z")},
	}

	summary := SummarizeAudit(entries)
	if summary.Total != 3 {
		t.Fatalf("total = %d, want 3", summary.Total)
	}
	if summary.ByAction[ActionUpload] != 2 || summary.ByAction[ActionSearch] != 1 {
		t.Fatalf("by action wrong: %v", summary.ByAction)
	}
	if len(summary.ByDay) != 2 || summary.ByDay[0].Day != "2026-08-30" || summary.ByDay[0].Count != 2 {
		t.Fatalf("by day wrong: %v", summary.ByDay)
	}
}
