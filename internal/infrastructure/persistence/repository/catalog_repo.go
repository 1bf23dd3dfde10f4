package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/infrastructure/persistence/sqlite"
)

// ProductRepository implements port.ProductRepository
type ProductRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) port.ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

const productColumns = `id, name_en, name_bn, description_en, description_bn, price, active, display_order, created_at, updated_at`

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.NameEN, &p.NameBN, &p.DescriptionEN, &p.DescriptionBN,
		&p.Price, &p.Active, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	now := time.Now().UTC()
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `
		INSERT INTO products (name_en, name_bn, description_en, description_bn, price, active, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.NameEN, p.NameBN, p.DescriptionEN, p.DescriptionBN, p.Price, p.Active, p.DisplayOrder, now, now)
	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	now := time.Now().UTC()
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `
		UPDATE products
		SET name_en = ?, name_bn = ?, description_en = ?, description_bn = ?,
			price = ?, active = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`, p.NameEN, p.NameBN, p.DescriptionEN, p.DescriptionBN, p.Price, p.Active, p.DisplayOrder, now, p.ID)
	if err != nil {
		r.logger.Error("Failed to update product", zap.Int64("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to update product: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY display_order ASC, id ASC`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkAffected(result)
}

// ServiceRepository implements port.ServiceRepository
type ServiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *sql.DB, logger *zap.Logger) port.ServiceRepository {
	return &ServiceRepository{db: db, logger: logger}
}

const serviceColumns = `id, title_en, title_bn, description_en, description_bn, icon, active, display_order, created_at, updated_at`

func scanService(row rowScanner) (*entity.Service, error) {
	var s entity.Service
	var icon string
	err := row.Scan(&s.ID, &s.TitleEN, &s.TitleBN, &s.DescriptionEN, &s.DescriptionBN,
		&icon, &s.Active, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Icon = entity.ParseServiceIcon(icon)
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *entity.Service) error {
	now := time.Now().UTC()
	s.Icon = entity.ParseServiceIcon(string(s.Icon))
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `
		INSERT INTO services (title_en, title_bn, description_en, description_bn, icon, active, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.TitleEN, s.TitleBN, s.DescriptionEN, s.DescriptionBN, s.Icon, s.Active, s.DisplayOrder, now, now)
	if err != nil {
		r.logger.Error("Failed to create service", zap.Error(err))
		return fmt.Errorf("failed to create service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	s.ID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *entity.Service) error {
	now := time.Now().UTC()
	s.Icon = entity.ParseServiceIcon(string(s.Icon))
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `
		UPDATE services
		SET title_en = ?, title_bn = ?, description_en = ?, description_bn = ?,
			icon = ?, active = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`, s.TitleEN, s.TitleBN, s.DescriptionEN, s.DescriptionBN, s.Icon, s.Active, s.DisplayOrder, now, s.ID)
	if err != nil {
		r.logger.Error("Failed to update service", zap.Int64("id", s.ID), zap.Error(err))
		return fmt.Errorf("failed to update service: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}
	s.UpdatedAt = now
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*entity.Service, error) {
	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	s, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return s, nil
}

func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY display_order ASC, id ASC`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list services", zap.Error(err))
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var out []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return checkAffected(result)
}
