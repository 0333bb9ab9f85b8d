// Package jsonfile persists the document collection and audit ledger as two
// human-readable JSON files. Writes go through a temp file and an atomic
// rename, so readers never observe a partially written collection.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

const (
	documentsFile = "documents.json"
	auditFile     = "audit_log.json"
)

// Store keeps the full collection in memory and rewrites the backing files on
// every mutation. One Store instance must own its data directory; concurrent
// access goes through the internal lock, not through the filesystem.
type Store struct {
	mu       sync.RWMutex
	registry *domain.Registry

	docsPath  string
	auditPath string

	docs  []domain.Document
	audit []domain.AuditEntry
}

func New(dir string, registry *domain.Registry) (*Store, error) {
	if dir == "" {
		dir = "./data/store"
	}
	if registry == nil {
		return nil, errors.New("jsonfile: registry is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	s := &Store{
		registry:  registry,
		docsPath:  filepath.Join(dir, documentsFile),
		auditPath: filepath.Join(dir, auditFile),
	}
	if err := loadJSON(s.docsPath, &s.docs); err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if err := loadJSON(s.auditPath, &s.audit); err != nil {
		return nil, fmt.Errorf("load audit log: %w", err)
	}
	return s, nil
}

func (s *Store) Insert(_ context.Context, doc *domain.Document, actor domain.Actor, origin string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" || s.hasID(doc.ID) {
		doc.ID = uuid.NewString()
		for s.hasID(doc.ID) {
			doc.ID = uuid.NewString()
		}
	}
	doc.Status = domain.StatusActive

	s.docs = append(s.docs, doc.Clone())
	if err := s.persistDocuments(); err != nil {
		s.docs = s.docs[:len(s.docs)-1]
		return "", domain.WrapError(domain.ErrPersistence, "insert document", err)
	}

	entry := domain.NewAuditEntry(domain.ActionUpload, doc.ID, actor,
		fmt.Sprintf("Uploaded document: %s", doc.Filename), origin)
	if err := s.appendAuditLocked(entry); err != nil {
		// The upload is not durable without its ledger entry.
		s.docs = s.docs[:len(s.docs)-1]
		if rbErr := s.persistDocuments(); rbErr != nil {
			return "", domain.WrapError(domain.ErrPersistence, "insert document rollback", rbErr)
		}
		return "", domain.WrapError(domain.ErrPersistence, "insert document", err)
	}
	return doc.ID, nil
}

func (s *Store) ListByRole(_ context.Context, role string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Document, 0)
	for _, doc := range s.docs {
		if doc.Status != domain.StatusActive {
			continue
		}
		if !s.registry.RoleCanSee(role, doc.DocumentType) {
			continue
		}
		out = append(out, doc.Clone())
	}
	return out, nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if doc.ID == id {
			clone := doc.Clone()
			return &clone, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id %s", id))
}

func (s *Store) Archive(_ context.Context, id string, actor domain.Actor, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, doc := range s.docs {
		if doc.ID == id && doc.Status == domain.StatusActive {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.WrapError(domain.ErrNotFound, "archive document", fmt.Errorf("id %s", id))
	}

	s.docs[idx].Status = domain.StatusArchived
	if err := s.persistDocuments(); err != nil {
		s.docs[idx].Status = domain.StatusActive
		return domain.WrapError(domain.ErrPersistence, "archive document", err)
	}

	entry := domain.NewAuditEntry(domain.ActionArchive, id, actor,
		fmt.Sprintf("Archived document: %s", s.docs[idx].Filename), origin)
	if err := s.appendAuditLocked(entry); err != nil {
		s.docs[idx].Status = domain.StatusActive
		if rbErr := s.persistDocuments(); rbErr != nil {
			return domain.WrapError(domain.ErrPersistence, "archive document rollback", rbErr)
		}
		return domain.WrapError(domain.ErrPersistence, "archive document", err)
	}
	return nil
}

func (s *Store) All(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc.Clone())
	}
	return out, nil
}

// Statistics aggregates over every record, archived included, so the totals
// never shrink when documents leave the active views.
func (s *Store) Statistics(_ context.Context) (domain.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.Statistics{
		TotalDocuments: len(s.docs),
		ByType:         make(map[string]int),
		ByPriority:     make(map[domain.Priority]int),
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -7)
	for _, doc := range s.docs {
		stats.ByType[doc.DocumentType]++
		stats.ByPriority[doc.Priority]++
		if doc.UploadedAt.After(cutoff) {
			stats.RecentUploads++
		}
	}
	return stats, nil
}

func (s *Store) Append(_ context.Context, entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendAuditLocked(entry); err != nil {
		return domain.WrapError(domain.ErrPersistence, "append audit entry", err)
	}
	return nil
}

func (s *Store) Recent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(s.audit) {
		start = len(s.audit) - limit
	}
	return append([]domain.AuditEntry(nil), s.audit[start:]...), nil
}

func (s *Store) Summary(_ context.Context) (domain.AuditSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.SummarizeAudit(s.audit), nil
}

func (s *Store) hasID(id string) bool {
	for _, doc := range s.docs {
		if doc.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) appendAuditLocked(entry domain.AuditEntry) error {
	s.audit = append(s.audit, entry)
	if err := writeJSON(s.auditPath, s.audit); err != nil {
		s.audit = s.audit[:len(s.audit)-1]
		return err
	}
	return nil
}

func (s *Store) persistDocuments() error {
	return writeJSON(s.docsPath, s.docs)
}

func loadJSON(path string, target any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

func writeJSON(path string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
