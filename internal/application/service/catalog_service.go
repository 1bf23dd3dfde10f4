package service

import (
	"context"
	"fmt"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/pkg/utils"
)

// CatalogService manages products and services shown on the public site
type CatalogService interface {
	CreateProduct(ctx context.Context, p *entity.Product) error
	UpdateProduct(ctx context.Context, p *entity.Product) error
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	CreateService(ctx context.Context, s *entity.Service) error
	UpdateService(ctx context.Context, s *entity.Service) error
	GetService(ctx context.Context, id int64) (*entity.Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]*entity.Service, error)
	DeleteService(ctx context.Context, id int64) error

	// PublicProducts and PublicServices return active entries projected into one language
	PublicProducts(ctx context.Context, lang entity.Lang) ([]entity.LocalizedProduct, error)
	PublicServices(ctx context.Context, lang entity.Lang) ([]entity.LocalizedService, error)
}

type catalogServiceImpl struct {
	products port.ProductRepository
	services port.ServiceRepository
	logger   Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(products port.ProductRepository, services port.ServiceRepository, logger Logger) CatalogService {
	return &catalogServiceImpl{
		products: products,
		services: services,
		logger:   logger,
	}
}

func validateProduct(p *entity.Product) error {
	if err := utils.ValidateRequired(map[string]string{"name_en": p.NameEN}, "name_en"); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	if err := utils.ValidateNonNegative("price", p.Price); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	return nil
}

func validateService(s *entity.Service) error {
	if err := utils.ValidateRequired(map[string]string{"title_en": s.TitleEN}, "title_en"); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	return nil
}

func (c *catalogServiceImpl) CreateProduct(ctx context.Context, p *entity.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := c.products.Create(ctx, p); err != nil {
		return err
	}
	c.logger.Info("Product created", "product_id", p.ID)
	return nil
}

func (c *catalogServiceImpl) UpdateProduct(ctx context.Context, p *entity.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return c.products.Update(ctx, p)
}

func (c *catalogServiceImpl) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return c.products.GetByID(ctx, id)
}

func (c *catalogServiceImpl) ListProducts(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	return c.products.List(ctx, activeOnly)
}

func (c *catalogServiceImpl) DeleteProduct(ctx context.Context, id int64) error {
	return c.products.Delete(ctx, id)
}

func (c *catalogServiceImpl) CreateService(ctx context.Context, s *entity.Service) error {
	if err := validateService(s); err != nil {
		return err
	}
	if err := c.services.Create(ctx, s); err != nil {
		return err
	}
	c.logger.Info("Service created", "service_id", s.ID, "icon", s.Icon)
	return nil
}

func (c *catalogServiceImpl) UpdateService(ctx context.Context, s *entity.Service) error {
	if err := validateService(s); err != nil {
		return err
	}
	return c.services.Update(ctx, s)
}

func (c *catalogServiceImpl) GetService(ctx context.Context, id int64) (*entity.Service, error) {
	return c.services.GetByID(ctx, id)
}

func (c *catalogServiceImpl) ListServices(ctx context.Context, activeOnly bool) ([]*entity.Service, error) {
	return c.services.List(ctx, activeOnly)
}

func (c *catalogServiceImpl) DeleteService(ctx context.Context, id int64) error {
	return c.services.Delete(ctx, id)
}

func (c *catalogServiceImpl) PublicProducts(ctx context.Context, lang entity.Lang) ([]entity.LocalizedProduct, error) {
	products, err := c.products.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]entity.LocalizedProduct, len(products))
	for i, p := range products {
		out[i] = p.Localize(lang)
	}
	return out, nil
}

func (c *catalogServiceImpl) PublicServices(ctx context.Context, lang entity.Lang) ([]entity.LocalizedService, error) {
	services, err := c.services.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]entity.LocalizedService, len(services))
	for i, s := range services {
		out[i] = s.Localize(lang)
	}
	return out, nil
}
