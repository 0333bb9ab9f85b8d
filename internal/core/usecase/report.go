package usecase

import (
	"context"
	"fmt"

	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/core/ports"
)

const defaultAuditLimit = 100

// ReportUseCase serves the dashboard aggregates: corpus statistics and the
// audit timeline views.
type ReportUseCase struct {
	store ports.DocumentStore
	audit ports.AuditLog
}

func NewReportUseCase(store ports.DocumentStore, audit ports.AuditLog) *ReportUseCase {
	return &ReportUseCase{store: store, audit: audit}
}

func (uc *ReportUseCase) Statistics(ctx context.Context) (domain.Statistics, error) {
	stats, err := uc.store.Statistics(ctx)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("compute statistics: %w", err)
	}
	return stats, nil
}

func (uc *ReportUseCase) RecentAudit(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	entries, err := uc.audit.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return entries, nil
}

func (uc *ReportUseCase) AuditSummary(ctx context.Context) (domain.AuditSummary, error) {
	summary, err := uc.audit.Summary(ctx)
	if err != nil {
		return domain.AuditSummary{}, fmt.Errorf("summarize audit log: %w", err)
	}
	return summary, nil
}
