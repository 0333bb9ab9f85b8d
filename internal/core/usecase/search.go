package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/core/ports"
	"github.com/transitdocs/doctrack/internal/core/search"
	"github.com/transitdocs/doctrack/internal/ctxutil"
)

// SearchUseCase ranks the caller's role-visible documents against a query
// and records a SEARCH audit entry before the result is considered final.
type SearchUseCase struct {
	store   ports.DocumentStore
	audit   ports.AuditLog
	weights search.Weights
}

func NewSearchUseCase(store ports.DocumentStore, audit ports.AuditLog, weights search.Weights) *SearchUseCase {
	return &SearchUseCase{store: store, audit: audit, weights: weights}
}

func (uc *SearchUseCase) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.WrapError(domain.ErrUnauthorized, "search documents", errors.New("missing actor"))
	}
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrValidation, "search documents", errors.New("query is required"))
	}

	candidates, err := uc.store.ListByRole(ctx, actor.Role)
	if err != nil {
		return nil, fmt.Errorf("list by role: %w", err)
	}

	hits := search.Rank(candidates, query, uc.weights)

	entry := domain.NewAuditEntry(domain.ActionSearch, "", actor,
		fmt.Sprintf("Searched for %q: %d results", query, len(hits)), ctxutil.OriginFromCtx(ctx))
	if err := uc.audit.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append search audit entry: %w", err)
	}
	return hits, nil
}
