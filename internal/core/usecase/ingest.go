package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/core/ports"
	"github.com/transitdocs/doctrack/internal/ctxutil"
)

// IngestUseCase accepts an upload: the blob goes to object storage and a
// processing job goes on the queue. The document record itself is created by
// the worker once the pipeline finishes.
type IngestUseCase struct {
	storage ports.ObjectStorage
	queue   ports.JobQueue
}

func NewIngestUseCase(storage ports.ObjectStorage, queue ports.JobQueue) *IngestUseCase {
	return &IngestUseCase{storage: storage, queue: queue}
}

func (uc *IngestUseCase) Upload(
	ctx context.Context,
	filename, fileType string,
	body io.Reader,
) (*domain.ProcessingJob, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.WrapError(domain.ErrUnauthorized, "upload document", errors.New("missing actor"))
	}
	if strings.TrimSpace(filename) == "" {
		return nil, domain.WrapError(domain.ErrValidation, "upload document", errors.New("filename is required"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	job := domain.ProcessingJob{
		ID:         id,
		StorageKey: storageKey,
		Filename:   filename,
		FileType:   fileType,
		Actor:      actor,
		Origin:     ctxutil.OriginFromCtx(ctx),
		UploadedAt: time.Now().UTC(),
	}

	if err := uc.queue.PublishProcessingJob(ctx, job); err != nil {
		return nil, fmt.Errorf("publish processing job: %w", err)
	}
	return &job, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.bin"
	}
	return base
}
