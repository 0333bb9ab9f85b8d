package ports

import (
	"context"
	"io"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

// DocumentIngestor accepts an upload, stores the blob and enqueues the
// processing job. The acting user comes from the request context.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, fileType string, body io.Reader) (*domain.ProcessingJob, error)
}

// DocumentProcessor runs the full pipeline for one job and inserts the
// finished record. It reports the assigned category for observability.
type DocumentProcessor interface {
	Process(ctx context.Context, job domain.ProcessingJob) (category string, err error)
}

// DocumentReader is the role-scoped read model.
type DocumentReader interface {
	List(ctx context.Context) ([]domain.Document, error)
	Get(ctx context.Context, id string) (*domain.Document, error)
	Archive(ctx context.Context, id string) error
}

// DocumentSearcher answers ranked keyword queries over the caller's
// role-visible set.
type DocumentSearcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchHit, error)
}

// Reporter serves the dashboard aggregates.
type Reporter interface {
	Statistics(ctx context.Context) (domain.Statistics, error)
	RecentAudit(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	AuditSummary(ctx context.Context) (domain.AuditSummary, error)
}
