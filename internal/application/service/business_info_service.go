package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/techvibe/backoffice/internal/application/dispatcher"
	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/domain/event"
	"github.com/techvibe/backoffice/pkg/utils"
)

// BusinessInfoService serves the company settings from memory after the first read
type BusinessInfoService interface {
	Get(ctx context.Context) (*entity.BusinessInfo, error)
	Localized(ctx context.Context, lang entity.Lang) (entity.LocalizedBusinessInfo, error)
	Update(ctx context.Context, info *entity.BusinessInfo) error
	// Invalidate drops the cached copy; the next Get reads the store
	Invalidate()
	// Refresh reloads the cached copy from the store
	Refresh(ctx context.Context) error
	// InvalidationHandler is subscribed to business_info.updated
	InvalidationHandler() dispatcher.Handler
}

type businessInfoServiceImpl struct {
	repo       port.BusinessInfoRepository
	dispatcher dispatcher.Dispatcher
	logger     Logger

	mu     sync.RWMutex
	cached *entity.BusinessInfo
}

// NewBusinessInfoService creates a new BusinessInfoService
func NewBusinessInfoService(repo port.BusinessInfoRepository, dispatcher dispatcher.Dispatcher, logger Logger) BusinessInfoService {
	return &businessInfoServiceImpl{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Get returns a copy so callers cannot mutate the cache
func (s *businessInfoServiceImpl) Get(ctx context.Context) (*entity.BusinessInfo, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return copyBusinessInfo(cached), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		info, err := s.repo.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("load business info: %w", err)
		}
		s.cached = info
	}
	return copyBusinessInfo(s.cached), nil
}

func (s *businessInfoServiceImpl) Localized(ctx context.Context, lang entity.Lang) (entity.LocalizedBusinessInfo, error) {
	info, err := s.Get(ctx)
	if err != nil {
		return entity.LocalizedBusinessInfo{}, err
	}
	return info.Localize(lang), nil
}

func (s *businessInfoServiceImpl) Update(ctx context.Context, info *entity.BusinessInfo) error {
	if err := utils.ValidateRequired(map[string]string{"company_name_en": info.CompanyNameEN}, "company_name_en"); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	if info.Email != "" {
		if err := utils.ValidateEmail(info.Email); err != nil {
			return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
		}
	}

	if err := s.repo.Save(ctx, info); err != nil {
		s.logger.Error("Failed to save business info", "error", err)
		return err
	}
	s.logger.Info("Business info updated")

	if s.dispatcher == nil {
		s.Invalidate()
		return nil
	}
	return s.dispatcher.Dispatch(ctx, event.NewEvent(event.TypeBusinessInfoUpdated, "business_info", 1, nil))
}

func (s *businessInfoServiceImpl) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Refresh reads under the write lock so a concurrent Invalidate lands after the install
func (s *businessInfoServiceImpl) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("refresh business info: %w", err)
	}
	s.cached = info
	return nil
}

func (s *businessInfoServiceImpl) InvalidationHandler() dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		s.Invalidate()
		return nil
	}
}

func copyBusinessInfo(src *entity.BusinessInfo) *entity.BusinessInfo {
	cp := *src
	cp.SocialLinks = make(map[string]string, len(src.SocialLinks))
	for k, v := range src.SocialLinks {
		cp.SocialLinks[k] = v
	}
	return &cp
}
