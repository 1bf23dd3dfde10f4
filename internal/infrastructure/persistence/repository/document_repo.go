package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/infrastructure/persistence/sqlite"
)

const documentColumns = `
	id, number, client_id, client_name, client_email, client_phone, client_address,
	issue_date, due_date, status, tax_rate, discount_amount,
	subtotal, tax_amount, total, notes, terms, version, created_at, updated_at`

// DocumentRepository implements port.DocumentRepository for invoices and quotations
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the document header. Items are written separately.
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	table, err := documentTable(doc.Kind)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	query := fmt.Sprintf(`
		INSERT INTO %s (
			number, client_id, client_name, client_email, client_phone, client_address,
			issue_date, due_date, status, tax_rate, discount_amount,
			subtotal, tax_amount, total, notes, terms, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, table)

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		doc.Number,
		nullInt64(doc.ClientID),
		doc.Name,
		doc.Email,
		doc.Phone,
		doc.Address,
		doc.IssueDate,
		nullTime(doc.DueDate),
		doc.Status,
		doc.TaxRatePercent,
		doc.DiscountAmount,
		doc.Subtotal,
		doc.TaxAmount,
		doc.Total,
		doc.Notes,
		doc.Terms,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create document", zap.String("kind", string(doc.Kind)), zap.Error(err))
		return fmt.Errorf("failed to create %s: %w", doc.Kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	doc.Version = 1
	doc.CreatedAt = now
	doc.UpdatedAt = now
	return nil
}

// Update writes the header guarded by the optimistic version
func (r *DocumentRepository) Update(ctx context.Context, doc *entity.Document) error {
	table, err := documentTable(doc.Kind)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	query := fmt.Sprintf(`
		UPDATE %s SET
			client_id = ?, client_name = ?, client_email = ?, client_phone = ?, client_address = ?,
			issue_date = ?, due_date = ?, status = ?, tax_rate = ?, discount_amount = ?,
			subtotal = ?, tax_amount = ?, total = ?, notes = ?, terms = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, table)

	exec := sqlite.ExecutorFrom(ctx, r.db)
	result, err := exec.ExecContext(ctx, query,
		nullInt64(doc.ClientID),
		doc.Name,
		doc.Email,
		doc.Phone,
		doc.Address,
		doc.IssueDate,
		nullTime(doc.DueDate),
		doc.Status,
		doc.TaxRatePercent,
		doc.DiscountAmount,
		doc.Subtotal,
		doc.TaxAmount,
		doc.Total,
		doc.Notes,
		doc.Terms,
		now,
		doc.ID,
		doc.Version,
	)
	if err != nil {
		r.logger.Error("Failed to update document", zap.Int64("id", doc.ID), zap.Error(err))
		return fmt.Errorf("failed to update %s: %w", doc.Kind, err)
	}

	if err := checkAffected(result); err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			return err
		}
		var exists int
		row := exec.QueryRowContext(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, table), doc.ID)
		if scanErr := row.Scan(&exists); errors.Is(scanErr, sql.ErrNoRows) {
			return entity.ErrNotFound
		}
		return entity.ErrVersionConflict
	}

	doc.Version++
	doc.UpdatedAt = now
	return nil
}

// GetByID retrieves a document header; items are not loaded
func (r *DocumentRepository) GetByID(ctx context.Context, kind entity.DocumentKind, id int64) (*entity.Document, error) {
	table, err := documentTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, documentColumns, table)
	doc, err := scanDocument(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get document", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get %s: %w", kind, err)
	}

	doc.Kind = kind
	return doc, nil
}

// List returns headers newest first
func (r *DocumentRepository) List(ctx context.Context, kind entity.DocumentKind, filter entity.DocumentFilter) ([]*entity.Document, error) {
	table, err := documentTable(kind)
	if err != nil {
		return nil, err
	}

	var where []string
	var args []interface{}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.ClientID != nil {
		where = append(where, "client_id = ?")
		args = append(args, *filter.ClientID)
	}
	if filter.DueBefore != nil {
		where = append(where, "due_date IS NOT NULL AND due_date < ?")
		args = append(args, *filter.DueBefore)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, documentColumns, table)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY issue_date DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list documents", zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		doc.Kind = kind
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateStatus sets the status without touching the version
func (r *DocumentRepository) UpdateStatus(ctx context.Context, kind entity.DocumentKind, id int64, status entity.DocumentStatus) error {
	table, err := documentTable(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET status = ?, updated_at = ? WHERE id = ?`, table)
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update document status", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}
	return checkAffected(result)
}

// Delete removes the header; item rows go with it through ON DELETE CASCADE
func (r *DocumentRepository) Delete(ctx context.Context, kind entity.DocumentKind, id int64) error {
	table, err := documentTable(kind)
	if err != nil {
		return err
	}

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		r.logger.Error("Failed to delete document", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return checkAffected(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var clientID sql.NullInt64
	var dueDate sql.NullTime

	err := row.Scan(
		&doc.ID,
		&doc.Number,
		&clientID,
		&doc.Name,
		&doc.Email,
		&doc.Phone,
		&doc.Address,
		&doc.IssueDate,
		&dueDate,
		&doc.Status,
		&doc.TaxRatePercent,
		&doc.DiscountAmount,
		&doc.Subtotal,
		&doc.TaxAmount,
		&doc.Total,
		&doc.Notes,
		&doc.Terms,
		&doc.Version,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.ClientID = int64Ptr(clientID)
	doc.DueDate = timePtr(dueDate)
	return &doc, nil
}
