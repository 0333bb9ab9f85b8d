package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/transitdocs/doctrack/internal/core/classify"
	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/core/ports"
)

// ProcessUseCase runs the pipeline for one job: extract text, detect
// language, translate, summarize, classify, extract key fields and insert
// the finished record. Collaborator failures degrade (empty text, original
// language, fallback summary) rather than losing the upload; only the final
// insert is allowed to fail the job.
type ProcessUseCase struct {
	store      ports.DocumentStore
	extractor  ports.TextExtractor
	detector   ports.LanguageDetector
	translator ports.Translator
	summarizer ports.Summarizer
	classifier *classify.Classifier
	logger     *slog.Logger
}

func NewProcessUseCase(
	store ports.DocumentStore,
	extractor ports.TextExtractor,
	detector ports.LanguageDetector,
	translator ports.Translator,
	summarizer ports.Summarizer,
	classifier *classify.Classifier,
	logger *slog.Logger,
) *ProcessUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessUseCase{
		store:      store,
		extractor:  extractor,
		detector:   detector,
		translator: translator,
		summarizer: summarizer,
		classifier: classifier,
		logger:     logger,
	}
}

func (uc *ProcessUseCase) Process(ctx context.Context, job domain.ProcessingJob) (string, error) {
	text := uc.extractText(ctx, job)
	stats := textStats(text)

	language := "unknown"
	if uc.detector != nil && strings.TrimSpace(text) != "" {
		language = uc.detector.Detect(text)
	}

	workingText := uc.translate(ctx, job, text, language)
	insights := uc.summarize(ctx, job, workingText)

	result := uc.classifier.Classify(workingText, job.Filename)
	keyInfo := classify.ExtractKeyInformation(workingText, result.Category)

	doc := &domain.Document{
		ID:             job.ID,
		Filename:       job.Filename,
		FileType:       job.FileType,
		UploadedAt:     job.UploadedAt,
		UploadedBy:     job.Actor,
		DocumentType:   result.Category,
		Confidence:     result.Confidence,
		Summary:        insights.Summary,
		ActionItems:    insights.ActionItems,
		Deadlines:      insights.Deadlines,
		Risks:          insights.Risks,
		Priority:       domain.NormalizePriority(insights.Priority),
		Language:       language,
		TextStats:      stats,
		KeyInformation: keyInfo,
	}

	id, err := uc.store.Insert(ctx, doc, job.Actor, job.Origin)
	if err != nil {
		return result.Category, fmt.Errorf("insert document record: %w", err)
	}

	uc.logger.Info("document_processed",
		"document_id", id,
		"filename", job.Filename,
		"category", result.Category,
		"confidence", result.Confidence,
		"confident", result.Confident,
		"language", language,
	)
	return result.Category, nil
}

func (uc *ProcessUseCase) extractText(ctx context.Context, job domain.ProcessingJob) string {
	if uc.extractor == nil {
		return ""
	}
	text, err := uc.extractor.Extract(ctx, job.StorageKey, job.FileType)
	if err != nil {
		// Empty text is tolerated: classification falls back to the filename.
		uc.logger.Warn("text_extraction_failed", "job_id", job.ID, "filename", job.Filename, "error", err)
		return ""
	}
	return text
}

func (uc *ProcessUseCase) translate(ctx context.Context, job domain.ProcessingJob, text, language string) string {
	if uc.translator == nil || text == "" || language == "en" || language == "unknown" {
		return text
	}
	translated, err := uc.translator.TranslateToEnglish(ctx, text, language)
	if err != nil {
		uc.logger.Warn("translation_failed", "job_id", job.ID, "language", language, "error", err)
		return text
	}
	if strings.TrimSpace(translated) == "" {
		return text
	}
	return translated
}

func (uc *ProcessUseCase) summarize(ctx context.Context, job domain.ProcessingJob, text string) domain.Insights {
	if uc.summarizer == nil {
		return domain.Insights{}.Normalize()
	}
	insights, err := uc.summarizer.Summarize(ctx, text)
	if err != nil {
		uc.logger.Warn("summarization_failed", "job_id", job.ID, "error", err)
		return domain.Insights{}.Normalize()
	}
	return insights.Normalize()
}

func textStats(text string) domain.TextStats {
	if text == "" {
		return domain.TextStats{}
	}
	return domain.TextStats{
		Words:      len(strings.Fields(text)),
		Characters: len([]rune(text)),
		Lines:      len(strings.Split(text, "\n")),
	}
}
