package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/billing"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/pkg/utils"
)

// ClientService manages the client directory
type ClientService interface {
	Create(ctx context.Context, c *entity.Client) error
	Update(ctx context.Context, c *entity.Client) error
	Get(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) (billing.PickResult, error)
}

type clientServiceImpl struct {
	repo   port.ClientRepository
	logger Logger
}

// NewClientService creates a new ClientService
func NewClientService(repo port.ClientRepository, logger Logger) ClientService {
	return &clientServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func validateClient(c *entity.Client) error {
	c.Name = utils.SanitizeString(c.Name)
	c.Email = strings.TrimSpace(c.Email)

	if err := utils.ValidateRequired(map[string]string{"name": c.Name}, "name"); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	if c.Email != "" {
		if err := utils.ValidateEmail(c.Email); err != nil {
			return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
		}
	}
	return nil
}

func (s *clientServiceImpl) Create(ctx context.Context, c *entity.Client) error {
	if err := validateClient(c); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("Failed to create client", "error", err)
		return err
	}
	s.logger.Info("Client created", "client_id", c.ID)
	return nil
}

// Update edits the client record. Documents keep the snapshot they were saved with.
func (s *clientServiceImpl) Update(ctx context.Context, c *entity.Client) error {
	if err := validateClient(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *clientServiceImpl) Get(ctx context.Context, id int64) (*entity.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *clientServiceImpl) List(ctx context.Context) ([]*entity.Client, error) {
	return s.repo.List(ctx)
}

func (s *clientServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Client deleted", "client_id", id)
	return nil
}

// Search runs the client picker over the whole directory
func (s *clientServiceImpl) Search(ctx context.Context, query string) (billing.PickResult, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return billing.PickResult{}, fmt.Errorf("list clients: %w", err)
	}
	return billing.FilterClients(clients, query), nil
}
