package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/core/ports"
	"github.com/transitdocs/doctrack/internal/ctxutil"
)

// DocumentsUseCase is the role-scoped read model. Every read that touches
// document content is audited synchronously: if the ledger append fails the
// operation fails with it.
type DocumentsUseCase struct {
	store ports.DocumentStore
	audit ports.AuditLog
}

func NewDocumentsUseCase(store ports.DocumentStore, audit ports.AuditLog) *DocumentsUseCase {
	return &DocumentsUseCase{store: store, audit: audit}
}

func (uc *DocumentsUseCase) List(ctx context.Context) ([]domain.Document, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.WrapError(domain.ErrUnauthorized, "list documents", errors.New("missing actor"))
	}

	docs, err := uc.store.ListByRole(ctx, actor.Role)
	if err != nil {
		return nil, fmt.Errorf("list by role: %w", err)
	}

	entry := domain.NewAuditEntry(domain.ActionList, "", actor,
		fmt.Sprintf("Listed %d accessible documents", len(docs)), ctxutil.OriginFromCtx(ctx))
	if err := uc.audit.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append list audit entry: %w", err)
	}
	return docs, nil
}

func (uc *DocumentsUseCase) Get(ctx context.Context, id string) (*domain.Document, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.WrapError(domain.ErrUnauthorized, "view document", errors.New("missing actor"))
	}

	doc, err := uc.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := domain.NewAuditEntry(domain.ActionView, doc.ID, actor,
		fmt.Sprintf("Viewed document: %s", doc.Filename), ctxutil.OriginFromCtx(ctx))
	if err := uc.audit.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append view audit entry: %w", err)
	}
	return doc, nil
}

func (uc *DocumentsUseCase) Archive(ctx context.Context, id string) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.WrapError(domain.ErrUnauthorized, "archive document", errors.New("missing actor"))
	}
	return uc.store.Archive(ctx, id, actor, ctxutil.OriginFromCtx(ctx))
}
