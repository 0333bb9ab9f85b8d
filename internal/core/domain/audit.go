package domain

import (
	"sort"
	"time"
)

type AuditAction string

const (
	ActionUpload  AuditAction = "UPLOAD"
	ActionView    AuditAction = "VIEW"
	ActionSearch  AuditAction = "SEARCH"
	ActionList    AuditAction = "LIST"
	ActionArchive AuditAction = "ARCHIVE"
)

// AuditEntry is one immutable ledger record of a user action. Once appended
// it is never edited or removed. DocumentID is empty for corpus-wide actions
// such as SEARCH and LIST.
type AuditEntry struct {
	Timestamp  time.Time   `json:"timestamp"`
	Action     AuditAction `json:"action"`
	DocumentID string      `json:"document_id,omitempty"`
	UserName   string      `json:"user_name"`
	UserRole   string      `json:"user_role"`
	Details    string      `json:"details"`
	Origin     string      `json:"origin,omitempty"`
}

func NewAuditEntry(action AuditAction, documentID string, actor Actor, details, origin string) AuditEntry {
	return AuditEntry{
		Timestamp:  time.Now().UTC(),
		Action:     action,
		DocumentID: documentID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		Details:    details,
		Origin:     origin,
	}
}

// DayCount is the activity count for one UTC calendar day.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// AuditSummary aggregates the full timeline: per-action totals and a
// per-day trend, days sorted ascending.
type AuditSummary struct {
	Total    int                 `json:"total"`
	ByAction map[AuditAction]int `json:"by_action"`
	ByDay    []DayCount          `json:"by_day"`
}

// SummarizeAudit derives the aggregate view from a list of entries.
func SummarizeAudit(entries []AuditEntry) AuditSummary {
	summary := AuditSummary{
		Total:    len(entries),
		ByAction: make(map[AuditAction]int),
	}
	perDay := make(map[string]int)
	for _, e := range entries {
		summary.ByAction[e.Action]++
		perDay[e.Timestamp.UTC().Format("2006-01-02")]++
	}
	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		summary.ByDay = append(summary.ByDay, DayCount{Day: day, Count: perDay[day]})
	}
	return summary
}
