package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/transitdocs/doctrack/internal/core/classify"
	"github.com/transitdocs/doctrack/internal/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func processJob() domain.ProcessingJob {
	return domain.ProcessingJob{
		ID:         "job-1",
		StorageKey: "job-1_invoice.pdf",
		Filename:   "invoice.pdf",
		FileType:   "pdf",
		Actor:      domain.Actor{Name: "anil", Role: "finance"},
		Origin:     "10.0.0.7",
		UploadedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func newProcessUnderTest(store *storeFake, extractor *extractorFake, detector *detectorFake, translator *translatorFake, summarizer *summarizerFake) *ProcessUseCase {
	classifier := classify.New(domain.DefaultRegistry(), classify.DefaultWeights())
	return NewProcessUseCase(store, extractor, detector, translator, summarizer, classifier, discardLogger())
}

func TestProcessInsertsClassifiedRecord(t *testing.T) {
	store := &storeFake{}
	extractor := &extractorFake{text: "Invoice INV-2024-001 total: 5,400.00 payment due soon"}
	summarizer := &summarizerFake{insights: domain.Insights{
		Summary:     "Invoice awaiting payment",
		ActionItems: []string{"Pay vendor"},
		Priority:    "High",
	}}
	uc := newProcessUnderTest(store, extractor, &detectorFake{language: "en"}, &translatorFake{}, summarizer)

	category, err := uc.Process(context.Background(), processJob())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if category != "Invoice" {
		t.Fatalf("category = %q", category)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d records, want 1", len(store.inserted))
	}
	doc := store.inserted[0]
	if doc.ID != "job-1" || doc.Filename != "invoice.pdf" {
		t.Fatalf("record identity = %+v", doc)
	}
	if doc.DocumentType != "Invoice" {
		t.Fatalf("document type = %q", doc.DocumentType)
	}
	if doc.Confidence <= 0 {
		t.Fatalf("confidence = %d", doc.Confidence)
	}
	if doc.Summary != "Invoice awaiting payment" || doc.Priority != domain.PriorityHigh {
		t.Fatalf("insights not applied: %+v", doc)
	}
	if doc.Language != "en" {
		t.Fatalf("language = %q", doc.Language)
	}
	if doc.TextStats.Words == 0 {
		t.Fatal("text stats not computed")
	}
	if _, ok := doc.KeyInformation["invoice_number"]; !ok {
		t.Fatalf("invoice number not extracted: %v", doc.KeyInformation)
	}
}

func TestProcessToleratesExtractionFailure(t *testing.T) {
	store := &storeFake{}
	extractor := &extractorFake{err: errors.New("corrupt pdf")}
	uc := newProcessUnderTest(store, extractor, &detectorFake{}, &translatorFake{}, &summarizerFake{})

	if _, err := uc.Process(context.Background(), processJob()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatal("record must still be inserted on extraction failure")
	}
	doc := store.inserted[0]
	// Filename alone still classifies the invoice.
	if doc.DocumentType != "Invoice" {
		t.Fatalf("document type = %q", doc.DocumentType)
	}
	if doc.Language != "unknown" {
		t.Fatalf("language = %q", doc.Language)
	}
	if doc.TextStats != (domain.TextStats{}) {
		t.Fatalf("text stats = %+v, want zero", doc.TextStats)
	}
}

func TestProcessTranslatesNonEnglishText(t *testing.T) {
	store := &storeFake{}
	translator := &translatorFake{translated: "invoice amount payment total: 9,000.00"}
	uc := newProcessUnderTest(store,
		&extractorFake{text: "चालान राशि भुगतान"},
		&detectorFake{language: "hi"},
		translator,
		&summarizerFake{})

	if _, err := uc.Process(context.Background(), processJob()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !translator.called || translator.sourceLang != "hi" {
		t.Fatalf("translator called=%v lang=%q", translator.called, translator.sourceLang)
	}
	doc := store.inserted[0]
	if doc.Language != "hi" {
		t.Fatalf("language = %q, want source language preserved", doc.Language)
	}
	if _, ok := doc.KeyInformation["amount"]; !ok {
		t.Fatalf("classification must run on translated text: %v", doc.KeyInformation)
	}
}

func TestProcessSkipsTranslatorForEnglish(t *testing.T) {
	translator := &translatorFake{}
	uc := newProcessUnderTest(&storeFake{},
		&extractorFake{text: "plain english text"},
		&detectorFake{language: "en"},
		translator,
		&summarizerFake{})

	if _, err := uc.Process(context.Background(), processJob()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if translator.called {
		t.Fatal("translator must not run for english text")
	}
}

func TestProcessTranslationFailureKeepsOriginalText(t *testing.T) {
	store := &storeFake{}
	translator := &translatorFake{err: errors.New("model offline")}
	uc := newProcessUnderTest(store,
		&extractorFake{text: "texto original"},
		&detectorFake{language: "es"},
		translator,
		&summarizerFake{})

	if _, err := uc.Process(context.Background(), processJob()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if store.inserted[0].TextStats.Words != 2 {
		t.Fatalf("stats = %+v, want stats of the original text", store.inserted[0].TextStats)
	}
}

func TestProcessSummarizerFailureFallsBack(t *testing.T) {
	store := &storeFake{}
	uc := newProcessUnderTest(store,
		&extractorFake{text: "some text"},
		&detectorFake{language: "en"},
		&translatorFake{},
		&summarizerFake{err: errors.New("timeout")})

	if _, err := uc.Process(context.Background(), processJob()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	doc := store.inserted[0]
	if doc.Priority != domain.PriorityMedium {
		t.Fatalf("priority = %q, want fallback Medium", doc.Priority)
	}
	if doc.ActionItems == nil || doc.Deadlines == nil || doc.Risks == nil {
		t.Fatalf("insight slices must be empty, not nil: %+v", doc)
	}
	if len(doc.ActionItems) != 0 {
		t.Fatalf("action items = %v", doc.ActionItems)
	}
}

func TestProcessInsertFailureFailsJob(t *testing.T) {
	store := &storeFake{insertErr: errors.New("disk full")}
	uc := newProcessUnderTest(store,
		&extractorFake{text: "some text"},
		&detectorFake{language: "en"},
		&translatorFake{},
		&summarizerFake{})

	if _, err := uc.Process(context.Background(), processJob()); err == nil {
		t.Fatal("expected insert failure to fail the job")
	}
}
