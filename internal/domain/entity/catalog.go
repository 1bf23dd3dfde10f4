package entity

import (
	"strings"
	"time"
)

// Lang is a supported site language
type Lang string

const (
	LangEnglish Lang = "en"
	LangBengali Lang = "bn"
)

// Pick returns the value for the language, falling back to English when empty
func (l Lang) Pick(en, bn string) string {
	if l == LangBengali && bn != "" {
		return bn
	}
	return en
}

// ServiceIcon is the closed set of icons a service card can show
type ServiceIcon string

const (
	IconCode      ServiceIcon = "code"
	IconMobile    ServiceIcon = "mobile"
	IconCloud     ServiceIcon = "cloud"
	IconDesign    ServiceIcon = "design"
	IconDatabase  ServiceIcon = "database"
	IconSecurity  ServiceIcon = "security"
	IconSupport   ServiceIcon = "support"
	IconAnalytics ServiceIcon = "analytics"
	IconDefault   ServiceIcon = "default"
)

var knownIcons = map[ServiceIcon]struct{}{
	IconCode: {}, IconMobile: {}, IconCloud: {}, IconDesign: {},
	IconDatabase: {}, IconSecurity: {}, IconSupport: {}, IconAnalytics: {},
}

// ParseServiceIcon maps a stored icon name onto the closed set.
// Unknown names resolve to IconDefault.
func ParseServiceIcon(name string) ServiceIcon {
	icon := ServiceIcon(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := knownIcons[icon]; ok {
		return icon
	}
	return IconDefault
}

// Product is a sellable catalog entry
type Product struct {
	ID            int64     `json:"id"`
	NameEN        string    `json:"name_en"`
	NameBN        string    `json:"name_bn"`
	DescriptionEN string    `json:"description_en"`
	DescriptionBN string    `json:"description_bn"`
	Price         float64   `json:"price"`
	Active        bool      `json:"active"`
	DisplayOrder  int       `json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Service is an offering shown on the public services page
type Service struct {
	ID            int64       `json:"id"`
	TitleEN       string      `json:"title_en"`
	TitleBN       string      `json:"title_bn"`
	DescriptionEN string      `json:"description_en"`
	DescriptionBN string      `json:"description_bn"`
	Icon          ServiceIcon `json:"icon"`
	Active        bool        `json:"active"`
	DisplayOrder  int         `json:"display_order"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// LocalizedProduct is the public projection of a product in one language
type LocalizedProduct struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// LocalizedService is the public projection of a service in one language
type LocalizedService struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        ServiceIcon `json:"icon"`
}

// Localize projects the product into a single language
func (p *Product) Localize(lang Lang) LocalizedProduct {
	return LocalizedProduct{
		ID:          p.ID,
		Name:        lang.Pick(p.NameEN, p.NameBN),
		Description: lang.Pick(p.DescriptionEN, p.DescriptionBN),
		Price:       p.Price,
	}
}

// Localize projects the service into a single language
func (s *Service) Localize(lang Lang) LocalizedService {
	return LocalizedService{
		ID:          s.ID,
		Title:       lang.Pick(s.TitleEN, s.TitleBN),
		Description: lang.Pick(s.DescriptionEN, s.DescriptionBN),
		Icon:        ParseServiceIcon(string(s.Icon)),
	}
}
