package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"majestic-dominion/internal/constants"
	"majestic-dominion/internal/domain"

	"github.com/rs/zerolog"
)

// snapshotRetention is how many previous versions are kept for recovery.
const snapshotRetention = 20

type SQLiteDocumentRepository struct {
	db     *sql.DB
	key    string
	logger zerolog.Logger
}

func NewSQLiteDocumentRepository(sqlDB *sql.DB, logger zerolog.Logger) *SQLiteDocumentRepository {
	return &SQLiteDocumentRepository{
		db:     sqlDB,
		key:    constants.DocumentKey,
		logger: logger,
	}
}

func (r *SQLiteDocumentRepository) Load(ctx context.Context) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM league_documents WHERE key = ?`, r.key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

func (r *SQLiteDocumentRepository) Save(ctx context.Context, doc *domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO league_documents (key, version, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			version = excluded.version,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		r.key, doc.Version, string(body), now)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO document_snapshots (key, version, body, created_at) VALUES (?, ?, ?, ?)`,
		r.key, doc.Version, string(body), now); err != nil {
		return fmt.Errorf("failed to write snapshot %d: %w", doc.Version, err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM document_snapshots
		WHERE key = ? AND id NOT IN (
			SELECT id FROM document_snapshots WHERE key = ? ORDER BY id DESC LIMIT ?
		)`, r.key, r.key, snapshotRetention); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit document: %w", err)
	}

	r.logger.Debug().Int64("version", doc.Version).Int("bytes", len(body)).Msg("document saved")
	return nil
}

// Snapshots lists the retained versions, newest first.
func (r *SQLiteDocumentRepository) Snapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT version, created_at, length(body) FROM document_snapshots WHERE key = ? ORDER BY id DESC`, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var s SnapshotInfo
		if err := rows.Scan(&s.Version, &s.CreatedAt, &s.Bytes); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Snapshot loads a retained version.
func (r *SQLiteDocumentRepository) Snapshot(ctx context.Context, version int64) (*domain.Document, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM document_snapshots WHERE key = ? AND version = ? ORDER BY id DESC LIMIT 1`,
		r.key, version).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %d: %w", version, err)
	}

	var doc domain.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %d: %w", version, err)
	}
	doc.Normalize()
	return &doc, nil
}
