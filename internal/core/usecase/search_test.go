package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/core/search"
)

func TestSearchRanksVisibleDocumentsAndAudits(t *testing.T) {
	store := &storeFake{visible: []domain.Document{
		{ID: "d1", Filename: "budget.xlsx", Summary: "quarterly budget review"},
		{ID: "d2", Filename: "notice.pdf", Summary: "platform closure"},
	}}
	audit := &auditFake{}
	uc := NewSearchUseCase(store, audit, search.DefaultWeights())

	hits, err := uc.Search(actorCtx("meera", "finance"), "budget")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Document.ID != "d1" {
		t.Fatalf("hits = %+v", hits)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("audit entries = %+v", audit.entries)
	}
	entry := audit.entries[0]
	if entry.Action != domain.ActionSearch {
		t.Fatalf("audit action = %q", entry.Action)
	}
	if !strings.Contains(entry.Details, `"budget"`) || !strings.Contains(entry.Details, "1 results") {
		t.Fatalf("audit details = %q", entry.Details)
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	audit := &auditFake{}
	uc := NewSearchUseCase(&storeFake{}, audit, search.DefaultWeights())

	_, err := uc.Search(actorCtx("meera", "finance"), "   ")
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(audit.entries) != 0 {
		t.Fatal("rejected query must not be audited")
	}
}

func TestSearchRequiresActor(t *testing.T) {
	uc := NewSearchUseCase(&storeFake{}, &auditFake{}, search.DefaultWeights())

	if _, err := uc.Search(context.Background(), "budget"); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSearchAuditFailureFailsOperation(t *testing.T) {
	store := &storeFake{visible: []domain.Document{{ID: "d1", Filename: "budget.xlsx"}}}
	audit := &auditFake{appendErr: errors.New("ledger unavailable")}
	uc := NewSearchUseCase(store, audit, search.DefaultWeights())

	if _, err := uc.Search(actorCtx("meera", "finance"), "budget"); err == nil {
		t.Fatal("search must fail when the audit append fails")
	}
}

func TestSearchEmptyResultStillAudited(t *testing.T) {
	audit := &auditFake{}
	uc := NewSearchUseCase(&storeFake{}, audit, search.DefaultWeights())

	hits, err := uc.Search(actorCtx("meera", "finance"), "nothing-matches")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("hits = %+v", hits)
	}
	if len(audit.entries) != 1 || !strings.Contains(audit.entries[0].Details, "0 results") {
		t.Fatalf("audit entries = %+v", audit.entries)
	}
}
