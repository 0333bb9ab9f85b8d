package langdetect

import "testing"

func TestDetectEnglish(t *testing.T) {
	d := New()

	got := d.Detect("The quarterly maintenance report covers all escalator inspections completed during August.")
	if got != "en" {
		t.Fatalf("Detect = %q, want en", got)
	}
}

func TestDetectHindi(t *testing.T) {
	d := New()

	got := d.Detect("यह मासिक रखरखाव रिपोर्ट अगस्त में पूरी हुई सभी लिफ्ट जांचों को कवर करती है।")
	if got != "hi" {
		t.Fatalf("Detect = %q, want hi", got)
	}
}

func TestDetectEmptyTextIsUnknown(t *testing.T) {
	d := New()

	if got := d.Detect("   "); got != "unknown" {
		t.Fatalf("Detect = %q, want unknown", got)
	}
}
