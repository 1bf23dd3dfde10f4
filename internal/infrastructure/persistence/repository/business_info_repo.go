package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/infrastructure/persistence/sqlite"
)

// BusinessInfoRepository implements port.BusinessInfoRepository over the pinned id=1 row
type BusinessInfoRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBusinessInfoRepository creates a new business info repository
func NewBusinessInfoRepository(db *sql.DB, logger *zap.Logger) port.BusinessInfoRepository {
	return &BusinessInfoRepository{
		db:     db,
		logger: logger,
	}
}

// Get loads the settings row
func (r *BusinessInfoRepository) Get(ctx context.Context) (*entity.BusinessInfo, error) {
	var info entity.BusinessInfo
	var social string
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, `
		SELECT company_name_en, company_name_bn, tagline_en, tagline_bn,
			email, phone, address_en, address_bn, website, social_links, updated_at
		FROM business_info WHERE id = 1
	`).Scan(&info.CompanyNameEN, &info.CompanyNameBN, &info.TaglineEN, &info.TaglineBN,
		&info.Email, &info.Phone, &info.AddressEN, &info.AddressBN, &info.Website, &social, &info.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get business info", zap.Error(err))
		return nil, fmt.Errorf("failed to get business info: %w", err)
	}

	info.SocialLinks = map[string]string{}
	if social != "" {
		if err := json.Unmarshal([]byte(social), &info.SocialLinks); err != nil {
			r.logger.Warn("Ignoring malformed social links", zap.Error(err))
			info.SocialLinks = map[string]string{}
		}
	}
	return &info, nil
}

// Save overwrites the settings row, creating it if the seed is missing
func (r *BusinessInfoRepository) Save(ctx context.Context, info *entity.BusinessInfo) error {
	links := info.SocialLinks
	if links == nil {
		links = map[string]string{}
	}
	social, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("failed to encode social links: %w", err)
	}

	now := time.Now().UTC()
	_, err = sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, `
		INSERT INTO business_info (
			id, company_name_en, company_name_bn, tagline_en, tagline_bn,
			email, phone, address_en, address_bn, website, social_links, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name_en = excluded.company_name_en,
			company_name_bn = excluded.company_name_bn,
			tagline_en = excluded.tagline_en,
			tagline_bn = excluded.tagline_bn,
			email = excluded.email,
			phone = excluded.phone,
			address_en = excluded.address_en,
			address_bn = excluded.address_bn,
			website = excluded.website,
			social_links = excluded.social_links,
			updated_at = excluded.updated_at
	`, info.CompanyNameEN, info.CompanyNameBN, info.TaglineEN, info.TaglineBN,
		info.Email, info.Phone, info.AddressEN, info.AddressBN, info.Website, string(social), now)
	if err != nil {
		r.logger.Error("Failed to save business info", zap.Error(err))
		return fmt.Errorf("failed to save business info: %w", err)
	}

	info.UpdatedAt = now
	return nil
}
