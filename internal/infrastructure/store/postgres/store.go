// Package postgres is the relational store backend. It keeps the same
// contract as the jsonfile backend but lets several processes share one
// collection; insert and archive pair the document write with its audit
// entry in a single transaction.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

type Store struct {
	db       *sql.DB
	registry *domain.Registry
}

func New(db *sql.DB, registry *domain.Registry) (*Store, error) {
	if registry == nil {
		return nil, errors.New("postgres: registry is required")
	}
	return &Store{db: db, registry: registry}, nil
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	filename TEXT NOT NULL,
	file_type TEXT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL,
	uploaded_by_name TEXT NOT NULL,
	uploaded_by_role TEXT NOT NULL,
	document_type TEXT NOT NULL,
	confidence INTEGER NOT NULL DEFAULT 0,
	summary TEXT NOT NULL DEFAULT '',
	action_items JSONB NOT NULL DEFAULT '[]'::jsonb,
	deadlines JSONB NOT NULL DEFAULT '[]'::jsonb,
	risks JSONB NOT NULL DEFAULT '[]'::jsonb,
	priority TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT 'unknown',
	words INTEGER NOT NULL DEFAULT 0,
	characters INTEGER NOT NULL DEFAULT 0,
	lines INTEGER NOT NULL DEFAULT 0,
	key_information JSONB NOT NULL DEFAULT '{}'::jsonb,
	status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	seq BIGSERIAL PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL,
	action TEXT NOT NULL,
	document_id TEXT NOT NULL DEFAULT '',
	user_name TEXT NOT NULL,
	user_role TEXT NOT NULL,
	details TEXT NOT NULL,
	origin TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(document_type);
CREATE INDEX IF NOT EXISTS idx_audit_log_ts ON audit_log(ts);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const documentColumns = `id, filename, file_type, uploaded_at, uploaded_by_name, uploaded_by_role,
	document_type, confidence, summary, action_items, deadlines, risks, priority, language,
	words, characters, lines, key_information, status`

func (s *Store) Insert(ctx context.Context, doc *domain.Document, actor domain.Actor, origin string) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Status = domain.StatusActive

	actionItems, deadlines, risks, keyInfo, err := marshalDocumentJSON(doc)
	if err != nil {
		return "", domain.WrapError(domain.ErrPersistence, "insert document", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", domain.WrapError(domain.ErrPersistence, "insert document", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO documents (`+documentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
`,
		doc.ID, doc.Filename, doc.FileType, doc.UploadedAt, doc.UploadedBy.Name, doc.UploadedBy.Role,
		doc.DocumentType, doc.Confidence, doc.Summary, actionItems, deadlines, risks,
		string(doc.Priority), doc.Language, doc.TextStats.Words, doc.TextStats.Characters,
		doc.TextStats.Lines, keyInfo, string(doc.Status),
	)
	if err != nil {
		return "", domain.WrapError(domain.ErrPersistence, "insert document", err)
	}

	entry := domain.NewAuditEntry(domain.ActionUpload, doc.ID, actor,
		fmt.Sprintf("Uploaded document: %s", doc.Filename), origin)
	if err := insertAuditTx(ctx, tx, entry); err != nil {
		return "", domain.WrapError(domain.ErrPersistence, "insert document", err)
	}

	if err := tx.Commit(); err != nil {
		return "", domain.WrapError(domain.ErrPersistence, "insert document", err)
	}
	return doc.ID, nil
}

func (s *Store) ListByRole(ctx context.Context, role string) ([]domain.Document, error) {
	visible := s.registry.VisibleTo(role)
	if len(visible) == 0 {
		return []domain.Document{}, nil
	}

	placeholders := make([]string, len(visible))
	args := make([]any, 0, len(visible)+1)
	args = append(args, string(domain.StatusActive))
	for i, name := range visible {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, name)
	}

	query := `SELECT ` + documentColumns + `
FROM documents
WHERE status = $1 AND document_type IN (` + strings.Join(placeholders, ",") + `)
ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "list documents", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, domain.WrapError(domain.ErrPersistence, "get document", err)
	}
	return doc, nil
}

func (s *Store) Archive(ctx context.Context, id string, actor domain.Actor, origin string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapError(domain.ErrPersistence, "archive document", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var filename string
	err = tx.QueryRowContext(ctx, `
UPDATE documents SET status = $1 WHERE id = $2 AND status = $3 RETURNING filename
`, string(domain.StatusArchived), id, string(domain.StatusActive)).Scan(&filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WrapError(domain.ErrNotFound, "archive document", fmt.Errorf("id %s", id))
		}
		return domain.WrapError(domain.ErrPersistence, "archive document", err)
	}

	entry := domain.NewAuditEntry(domain.ActionArchive, id, actor,
		fmt.Sprintf("Archived document: %s", filename), origin)
	if err := insertAuditTx(ctx, tx, entry); err != nil {
		return domain.WrapError(domain.ErrPersistence, "archive document", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(domain.ErrPersistence, "archive document", err)
	}
	return nil
}

func (s *Store) All(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY seq`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "load documents", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (s *Store) Statistics(ctx context.Context) (domain.Statistics, error) {
	docs, err := s.All(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}

	stats := domain.Statistics{
		TotalDocuments: len(docs),
		ByType:         make(map[string]int),
		ByPriority:     make(map[domain.Priority]int),
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -7)
	for _, doc := range docs {
		stats.ByType[doc.DocumentType]++
		stats.ByPriority[doc.Priority]++
		if doc.UploadedAt.After(cutoff) {
			stats.RecentUploads++
		}
	}
	return stats, nil
}

func (s *Store) Append(ctx context.Context, entry domain.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO audit_log (ts, action, document_id, user_name, user_role, details, origin)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, entry.Timestamp, string(entry.Action), entry.DocumentID, entry.UserName, entry.UserRole, entry.Details, entry.Origin)
	if err != nil {
		return domain.WrapError(domain.ErrPersistence, "append audit entry", err)
	}
	return nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT ts, action, document_id, user_name, user_role, details, origin
FROM audit_log ORDER BY seq DESC LIMIT $1
`, limit)
	if err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "read audit log", err)
	}
	defer rows.Close()

	entries, err := scanAuditEntries(rows)
	if err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "read audit log", err)
	}
	// Newest-first from the query, chronological for the caller.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (s *Store) Summary(ctx context.Context) (domain.AuditSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT ts, action, document_id, user_name, user_role, details, origin
FROM audit_log ORDER BY seq
`)
	if err != nil {
		return domain.AuditSummary{}, domain.WrapError(domain.ErrPersistence, "summarize audit log", err)
	}
	defer rows.Close()

	entries, err := scanAuditEntries(rows)
	if err != nil {
		return domain.AuditSummary{}, domain.WrapError(domain.ErrPersistence, "summarize audit log", err)
	}
	return domain.SummarizeAudit(entries), nil
}

func insertAuditTx(ctx context.Context, tx *sql.Tx, entry domain.AuditEntry) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO audit_log (ts, action, document_id, user_name, user_role, details, origin)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, entry.Timestamp, string(entry.Action), entry.DocumentID, entry.UserName, entry.UserRole, entry.Details, entry.Origin)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func marshalDocumentJSON(doc *domain.Document) (actionItems, deadlines, risks, keyInfo []byte, err error) {
	if actionItems, err = json.Marshal(emptyIfNil(doc.ActionItems)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal action items: %w", err)
	}
	if deadlines, err = json.Marshal(emptyIfNil(doc.Deadlines)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal deadlines: %w", err)
	}
	if risks, err = json.Marshal(emptyIfNil(doc.Risks)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal risks: %w", err)
	}
	ki := doc.KeyInformation
	if ki == nil {
		ki = domain.KeyInformation{}
	}
	if keyInfo, err = json.Marshal(ki); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal key information: %w", err)
	}
	return actionItems, deadlines, risks, keyInfo, nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var actionItems, deadlines, risks, keyInfo []byte
	var priority, status string

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.FileType, &doc.UploadedAt, &doc.UploadedBy.Name, &doc.UploadedBy.Role,
		&doc.DocumentType, &doc.Confidence, &doc.Summary, &actionItems, &deadlines, &risks,
		&priority, &doc.Language, &doc.TextStats.Words, &doc.TextStats.Characters,
		&doc.TextStats.Lines, &keyInfo, &status,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(actionItems, &doc.ActionItems); err != nil {
		return nil, fmt.Errorf("unmarshal action items: %w", err)
	}
	if err := json.Unmarshal(deadlines, &doc.Deadlines); err != nil {
		return nil, fmt.Errorf("unmarshal deadlines: %w", err)
	}
	if err := json.Unmarshal(risks, &doc.Risks); err != nil {
		return nil, fmt.Errorf("unmarshal risks: %w", err)
	}
	if err := json.Unmarshal(keyInfo, &doc.KeyInformation); err != nil {
		return nil, fmt.Errorf("unmarshal key information: %w", err)
	}
	doc.Priority = domain.Priority(priority)
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func scanDocuments(rows *sql.Rows) ([]domain.Document, error) {
	out := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, domain.WrapError(domain.ErrPersistence, "scan document", err)
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "scan documents", err)
	}
	return out, nil
}

func scanAuditEntries(rows *sql.Rows) ([]domain.AuditEntry, error) {
	out := make([]domain.AuditEntry, 0)
	for rows.Next() {
		var e domain.AuditEntry
		var action string
		if err := rows.Scan(&e.Timestamp, &action, &e.DocumentID, &e.UserName, &e.UserRole, &e.Details, &e.Origin); err != nil {
			return nil, err
		}
		e.Action = domain.AuditAction(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
