package entity

import "time"

// BusinessInfo is the single row of company-wide site settings
type BusinessInfo struct {
	CompanyNameEN string            `json:"company_name_en"`
	CompanyNameBN string            `json:"company_name_bn"`
	TaglineEN     string            `json:"tagline_en"`
	TaglineBN     string            `json:"tagline_bn"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	AddressEN     string            `json:"address_en"`
	AddressBN     string            `json:"address_bn"`
	Website       string            `json:"website"`
	SocialLinks   map[string]string `json:"social_links"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// LocalizedBusinessInfo is the public projection in one language
type LocalizedBusinessInfo struct {
	CompanyName string            `json:"company_name"`
	Tagline     string            `json:"tagline"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Address     string            `json:"address"`
	Website     string            `json:"website"`
	SocialLinks map[string]string `json:"social_links"`
}

// Localize projects the settings into a single language
func (b *BusinessInfo) Localize(lang Lang) LocalizedBusinessInfo {
	return LocalizedBusinessInfo{
		CompanyName: lang.Pick(b.CompanyNameEN, b.CompanyNameBN),
		Tagline:     lang.Pick(b.TaglineEN, b.TaglineBN),
		Email:       b.Email,
		Phone:       b.Phone,
		Address:     lang.Pick(b.AddressEN, b.AddressBN),
		Website:     b.Website,
		SocialLinks: b.SocialLinks,
	}
}
