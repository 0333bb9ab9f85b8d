// Package bootstrap assembles the application graph shared by the API and
// worker binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/transitdocs/doctrack/internal/config"
	"github.com/transitdocs/doctrack/internal/core/classify"
	"github.com/transitdocs/doctrack/internal/core/domain"
	"github.com/transitdocs/doctrack/internal/core/ports"
	"github.com/transitdocs/doctrack/internal/core/search"
	"github.com/transitdocs/doctrack/internal/core/usecase"
	"github.com/transitdocs/doctrack/internal/infrastructure/extractor"
	"github.com/transitdocs/doctrack/internal/infrastructure/langdetect"
	"github.com/transitdocs/doctrack/internal/infrastructure/nlp/naive"
	"github.com/transitdocs/doctrack/internal/infrastructure/nlp/ollama"
	"github.com/transitdocs/doctrack/internal/infrastructure/queue/nats"
	"github.com/transitdocs/doctrack/internal/infrastructure/resilience"
	"github.com/transitdocs/doctrack/internal/infrastructure/storage/localfs"
	"github.com/transitdocs/doctrack/internal/infrastructure/store/jsonfile"
	"github.com/transitdocs/doctrack/internal/infrastructure/store/postgres"
)

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *domain.Registry

	Queue ports.JobQueue

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	ReaderUC  ports.DocumentReader
	SearchUC  ports.DocumentSearcher
	ReportUC  ports.Reporter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := domain.DefaultRegistry()

	store, audit, closeStore, err := openStore(ctx, cfg, registry)
	if err != nil {
		return nil, err
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	resCfg := resilience.DefaultConfig()
	resCfg.Logger = logger
	executor := resilience.NewExecutor(resCfg)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	var (
		summarizer ports.Summarizer = naive.NewSummarizer()
		translator ports.Translator
	)
	if cfg.OllamaEnabled {
		client := ollama.New(cfg.OllamaURL, cfg.OllamaModel, executor)
		summarizer = ollama.NewSummarizer(client)
		if cfg.TranslateDocs {
			translator = ollama.NewTranslator(client)
		}
	}

	classifier := classify.New(registry, classify.Weights{
		TextMatch:           cfg.ClassifyTextMatchWeight,
		FuzzyMatch:          cfg.ClassifyFuzzyMatchWeight,
		FilenameMatch:       cfg.ClassifyFilenameMatchWeight,
		FuzzyThreshold:      cfg.ClassifyFuzzyThreshold,
		ConfidenceThreshold: cfg.ClassifyConfidenceThreshold,
		MaxTokens:           cfg.ClassifyMaxTokens,
	})
	searchWeights := search.Weights{
		Filename:       cfg.SearchFilenameWeight,
		Summary:        cfg.SearchSummaryWeight,
		DocumentType:   cfg.SearchDocumentTypeWeight,
		ActionItem:     cfg.SearchActionItemWeight,
		Risk:           cfg.SearchRiskWeight,
		KeyInformation: cfg.SearchKeyInfoWeight,
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Queue:    queue,

		IngestUC: usecase.NewIngestUseCase(storage, queue),
		ProcessUC: usecase.NewProcessUseCase(
			store,
			extractor.New(storage),
			langdetect.New(),
			translator,
			summarizer,
			classifier,
			logger,
		),
		ReaderUC: usecase.NewDocumentsUseCase(store, audit),
		SearchUC: usecase.NewSearchUseCase(store, audit, searchWeights),
		ReportUC: usecase.NewReportUseCase(store, audit),

		closeFn: func() {
			queue.Close()
			closeStore()
		},
	}, nil
}

func openStore(ctx context.Context, cfg config.Config, registry *domain.Registry) (ports.DocumentStore, ports.AuditLog, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		st, err := postgres.New(db, registry)
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("init postgres store: %w", err)
		}
		if err := st.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return st, st, func() { _ = db.Close() }, nil
	case "", "jsonfile":
		st, err := jsonfile.New(cfg.DataDir, registry)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init jsonfile store: %w", err)
		}
		return st, st, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
