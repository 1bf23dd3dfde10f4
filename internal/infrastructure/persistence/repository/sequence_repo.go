package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/infrastructure/persistence/sqlite"
)

// SequenceRepository hands out per-kind document numbers from document_sequences
type SequenceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSequenceRepository creates a new sequence generator
func NewSequenceRepository(db *sql.DB, logger *zap.Logger) port.SequenceGenerator {
	return &SequenceRepository{
		db:     db,
		logger: logger,
	}
}

// FormatNumber renders a sequence value, e.g. INV-0007
func FormatNumber(kind entity.DocumentKind, value int64) string {
	return fmt.Sprintf("%s-%04d", kind.NumberPrefix(), value)
}

// Next increments the kind's counter and returns the new number.
// Inside a transaction the increment rolls back with it.
func (r *SequenceRepository) Next(ctx context.Context, kind entity.DocumentKind) (string, error) {
	if !kind.IsValid() {
		return "", entity.ErrInvalidKind
	}

	exec := sqlite.ExecutorFrom(ctx, r.db)
	if _, err := exec.ExecContext(ctx,
		`INSERT INTO document_sequences (kind, last_value) VALUES (?, 1)
		 ON CONFLICT(kind) DO UPDATE SET last_value = last_value + 1`, kind); err != nil {
		r.logger.Error("Failed to advance sequence", zap.String("kind", string(kind)), zap.Error(err))
		return "", fmt.Errorf("failed to advance sequence: %w", err)
	}

	var value int64
	if err := exec.QueryRowContext(ctx, `SELECT last_value FROM document_sequences WHERE kind = ?`, kind).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to read sequence: %w", err)
	}

	return FormatNumber(kind, value), nil
}

// Peek returns the number Next would hand out without consuming it
func (r *SequenceRepository) Peek(ctx context.Context, kind entity.DocumentKind) (string, error) {
	if !kind.IsValid() {
		return "", entity.ErrInvalidKind
	}

	var value int64
	err := sqlite.ExecutorFrom(ctx, r.db).
		QueryRowContext(ctx, `SELECT last_value FROM document_sequences WHERE kind = ?`, kind).
		Scan(&value)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to read sequence: %w", err)
	}

	return FormatNumber(kind, value+1), nil
}
