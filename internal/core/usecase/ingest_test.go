package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/ctxutil"
)

func actorCtx(name, role string) context.Context {
	return ctxutil.WithActor(context.Background(), domain.Actor{Name: name, Role: role})
}

func TestUploadStoresBlobAndPublishesJob(t *testing.T) {
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestUseCase(storage, queue)

	ctx := ctxutil.WithOrigin(actorCtx("anil", "engineer"), "10.0.0.7")
	job, err := uc.Upload(ctx, "Safety Notice July.pdf", "pdf", strings.NewReader("blob-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a generated job id")
	}
	if storage.savedBody != "blob-bytes" {
		t.Fatalf("stored body = %q", storage.savedBody)
	}
	if storage.savedKey != job.StorageKey {
		t.Fatalf("storage key %q does not match job key %q", storage.savedKey, job.StorageKey)
	}
	if !strings.HasPrefix(job.StorageKey, job.ID+"_") {
		t.Fatalf("storage key %q not prefixed with job id", job.StorageKey)
	}
	if strings.Contains(job.StorageKey, " ") {
		t.Fatalf("storage key %q not sanitized", job.StorageKey)
	}
	if len(queue.published) != 1 {
		t.Fatalf("published %d jobs, want 1", len(queue.published))
	}
	got := queue.published[0]
	if got.Filename != "Safety Notice July.pdf" || got.FileType != "pdf" {
		t.Fatalf("job payload = %+v", got)
	}
	if got.Actor.Name != "anil" || got.Origin != "10.0.0.7" {
		t.Fatalf("job actor/origin = %+v", got)
	}
	if got.UploadedAt.IsZero() {
		t.Fatal("job upload time not stamped")
	}
}

func TestUploadRequiresActor(t *testing.T) {
	uc := NewIngestUseCase(&storageFake{}, &queueFake{})

	_, err := uc.Upload(context.Background(), "a.pdf", "pdf", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUploadRejectsBlankFilename(t *testing.T) {
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestUseCase(storage, queue)

	_, err := uc.Upload(actorCtx("anil", "engineer"), "   ", "pdf", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if storage.savedKey != "" || len(queue.published) != 0 {
		t.Fatal("rejected upload must not touch storage or queue")
	}
}

func TestUploadQueueFailureSurfaces(t *testing.T) {
	queue := &queueFake{err: errors.New("nats down")}
	uc := NewIngestUseCase(&storageFake{}, queue)

	_, err := uc.Upload(actorCtx("anil", "engineer"), "a.pdf", "pdf", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "nats down") {
		t.Fatalf("expected queue error, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report 2024.pdf":    "report_2024.pdf",
		"../../etc/passwd":   "passwd",
		"счёт.pdf":           "____.pdf",
		"ok-name_v2.xlsx":    "ok-name_v2.xlsx",
		"":                   "document.bin",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
