package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

type storeFake struct {
	inserted  []domain.Document
	visible   []domain.Document
	archived  []string
	stats     domain.Statistics
	insertErr error
	listErr   error
}

func (f *storeFake) Insert(_ context.Context, doc *domain.Document, _ domain.Actor, _ string) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Status = domain.StatusActive
	f.inserted = append(f.inserted, doc.Clone())
	return doc.ID, nil
}

func (f *storeFake) ListByRole(context.Context, string) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.visible, nil
}

func (f *storeFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	for _, doc := range f.inserted {
		if doc.ID == id {
			clone := doc.Clone()
			return &clone, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get document", errors.New(id))
}

func (f *storeFake) Archive(_ context.Context, id string, _ domain.Actor, _ string) error {
	f.archived = append(f.archived, id)
	return nil
}

func (f *storeFake) All(context.Context) ([]domain.Document, error) {
	return f.inserted, nil
}

func (f *storeFake) Statistics(context.Context) (domain.Statistics, error) {
	return f.stats, nil
}

type auditFake struct {
	entries   []domain.AuditEntry
	appendErr error
}

func (f *auditFake) Append(_ context.Context, entry domain.AuditEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *auditFake) Recent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit >= len(f.entries) {
		return f.entries, nil
	}
	return f.entries[len(f.entries)-limit:], nil
}

func (f *auditFake) Summary(context.Context) (domain.AuditSummary, error) {
	return domain.SummarizeAudit(f.entries), nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.savedBody)), nil
}

type queueFake struct {
	published []domain.ProcessingJob
	err       error
}

func (f *queueFake) PublishProcessingJob(_ context.Context, job domain.ProcessingJob) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, job)
	return nil
}

func (f *queueFake) SubscribeProcessingJobs(context.Context, func(context.Context, domain.ProcessingJob) error) error {
	return errors.New("not implemented")
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, string, string) (string, error) {
	return f.text, f.err
}

type detectorFake struct {
	language string
}

func (f *detectorFake) Detect(string) string {
	if f.language == "" {
		return "unknown"
	}
	return f.language
}

type translatorFake struct {
	translated string
	sourceLang string
	called     bool
	err        error
}

func (f *translatorFake) TranslateToEnglish(_ context.Context, _ string, sourceLang string) (string, error) {
	f.called = true
	f.sourceLang = sourceLang
	return f.translated, f.err
}

type summarizerFake struct {
	insights domain.Insights
	err      error
}

func (f *summarizerFake) Summarize(context.Context, string) (domain.Insights, error) {
	return f.insights, f.err
}
