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

// LineItemRepository implements port.LineItemRepository
type LineItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *sql.DB, logger *zap.Logger) port.LineItemRepository {
	return &LineItemRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceAll deletes the document's rows and inserts items tagged with their position.
// Callers wrap it in a transaction together with the header write.
func (r *LineItemRepository) ReplaceAll(ctx context.Context, kind entity.DocumentKind, documentID int64, items []entity.LineItem) error {
	table, err := itemTable(kind)
	if err != nil {
		return err
	}

	exec := sqlite.ExecutorFrom(ctx, r.db)
	if _, err := exec.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE document_id = ?`, table), documentID); err != nil {
		r.logger.Error("Failed to delete line items", zap.Int64("document_id", documentID), zap.Error(err))
		return fmt.Errorf("failed to delete line items: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (document_id, description, quantity, unit_price, display_order)
		VALUES (?, ?, ?, ?, ?)
	`, table)

	for i, item := range items {
		if _, err := exec.ExecContext(ctx, insert, documentID, item.Description, item.Quantity, item.UnitPrice, i); err != nil {
			r.logger.Error("Failed to insert line item",
				zap.Int64("document_id", documentID),
				zap.Int("display_order", i),
				zap.Error(err))
			return fmt.Errorf("failed to insert line item %d: %w", i, err)
		}
	}

	return nil
}

// ListByDocument returns the rows in display order
func (r *LineItemRepository) ListByDocument(ctx context.Context, kind entity.DocumentKind, documentID int64) ([]entity.LineItem, error) {
	table, err := itemTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, document_id, description, quantity, unit_price
		FROM %s
		WHERE document_id = ?
		ORDER BY display_order ASC, id ASC
	`, table)

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, documentID)
	if err != nil {
		r.logger.Error("Failed to list line items", zap.Int64("document_id", documentID), zap.Error(err))
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	items := make([]entity.LineItem, 0)
	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
