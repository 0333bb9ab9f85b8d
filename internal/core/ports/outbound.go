package ports

import (
	"context"
	"io"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

// DocumentStore is the durable, role-aware document collection. Mutations
// are serialized by the implementation and write their own audit entries
// (UPLOAD on insert, ARCHIVE on archive) as part of the same durable step.
type DocumentStore interface {
	// Insert assigns a collision-free id, marks the record Active and
	// persists it together with an UPLOAD audit entry. Either both become
	// durable or neither is visible.
	Insert(ctx context.Context, doc *domain.Document, actor domain.Actor, origin string) (string, error)
	// ListByRole returns Active records visible to the role, in insertion
	// order. An unknown role yields an empty set, not an error.
	ListByRole(ctx context.Context, role string) ([]domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	// Archive soft-deletes: the record stays durable but leaves every
	// role-filtered view.
	Archive(ctx context.Context, id string, actor domain.Actor, origin string) error
	// All returns the full snapshot (including archived records) for
	// derived statistics.
	All(ctx context.Context) ([]domain.Document, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
}

// AuditLog is the append-only activity ledger.
type AuditLog interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	// Recent returns the newest limit entries in chronological order.
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	Summary(ctx context.Context) (domain.AuditSummary, error)
}

// ObjectStorage keeps the raw uploaded blobs until the worker picks them up.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// JobQueue hands processing jobs from the API to the worker.
type JobQueue interface {
	PublishProcessingJob(ctx context.Context, job domain.ProcessingJob) error
	SubscribeProcessingJobs(ctx context.Context, handler func(context.Context, domain.ProcessingJob) error) error
}

// TextExtractor produces raw text for a stored blob. Implementations return
// empty text rather than failing on unsupported content; the pipeline falls
// back to filename-only classification.
type TextExtractor interface {
	Extract(ctx context.Context, storageKey, fileType string) (string, error)
}

// LanguageDetector reports the ISO 639-1 code of the text, or "unknown".
type LanguageDetector interface {
	Detect(text string) string
}

// Translator is the optional machine-translation collaborator.
type Translator interface {
	TranslateToEnglish(ctx context.Context, text, sourceLang string) (string, error)
}

// Summarizer is the summarization collaborator. The core stores its output
// verbatim after shape normalization.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (domain.Insights, error)
}
