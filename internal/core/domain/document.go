package domain

import "time"

type DocumentStatus string

const (
	StatusActive   DocumentStatus = "Active"
	StatusArchived DocumentStatus = "Archived"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// NormalizePriority maps collaborator-supplied priority strings onto the
// known set. Anything unrecognized (including empty) becomes Medium.
func NormalizePriority(raw string) Priority {
	switch Priority(raw) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(raw)
	default:
		return PriorityMedium
	}
}

// Actor identifies who performed an action. Supplied by the identity
// collaborator; the core only records and filters by it.
type Actor struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type TextStats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
	Lines      int `json:"lines"`
}

// Document is the stored record of one classified upload. It is created once
// at insert time and afterwards mutated only through the store; records are
// never destroyed, only archived.
type Document struct {
	ID             string         `json:"id"`
	Filename       string         `json:"filename"`
	FileType       string         `json:"file_type"`
	UploadedAt     time.Time      `json:"uploaded_at"`
	UploadedBy     Actor          `json:"uploaded_by"`
	DocumentType   string         `json:"document_type"`
	Confidence     int            `json:"classification_confidence"`
	Summary        string         `json:"summary"`
	ActionItems    []string       `json:"action_items"`
	Deadlines      []string       `json:"deadlines"`
	Risks          []string       `json:"risks"`
	Priority       Priority       `json:"priority"`
	Language       string         `json:"language"`
	TextStats      TextStats      `json:"text_stats"`
	KeyInformation KeyInformation `json:"key_information"`
	Status         DocumentStatus `json:"status"`
}

// Clone returns a deep copy so store snapshots cannot be mutated by callers.
func (d Document) Clone() Document {
	out := d
	out.ActionItems = append([]string(nil), d.ActionItems...)
	out.Deadlines = append([]string(nil), d.Deadlines...)
	out.Risks = append([]string(nil), d.Risks...)
	if d.KeyInformation != nil {
		out.KeyInformation = make(KeyInformation, len(d.KeyInformation))
		for k, v := range d.KeyInformation {
			out.KeyInformation[k] = v.clone()
		}
	}
	return out
}

// SearchHit is a document with its relevance score attached.
type SearchHit struct {
	Document Document `json:"document"`
	Score    int      `json:"score"`
}

// Statistics is a derived corpus snapshot, recomputed on demand and never
// persisted.
type Statistics struct {
	TotalDocuments int              `json:"total_documents"`
	ByType         map[string]int   `json:"documents_by_type"`
	ByPriority     map[Priority]int `json:"documents_by_priority"`
	RecentUploads  int              `json:"recent_uploads"`
}

// Insights is the shape handed over by the summarization collaborator. The
// core stores it verbatim after Normalize; semantic quality is out of scope.
type Insights struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
	Deadlines   []string `json:"deadlines"`
	Risks       []string `json:"risks"`
	Priority    string   `json:"priority"`
}

// Normalize enforces shape only: nil sequences become empty, the priority
// falls back to Medium.
func (i Insights) Normalize() Insights {
	out := i
	if out.ActionItems == nil {
		out.ActionItems = []string{}
	}
	if out.Deadlines == nil {
		out.Deadlines = []string{}
	}
	if out.Risks == nil {
		out.Risks = []string{}
	}
	out.Priority = string(NormalizePriority(out.Priority))
	return out
}

// ProcessingJob carries one pending upload from the API to the worker. The
// document record itself does not exist until the pipeline inserts it.
type ProcessingJob struct {
	ID         string    `json:"id"`
	StorageKey string    `json:"storage_key"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	Actor      Actor     `json:"actor"`
	Origin     string    `json:"origin,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}
