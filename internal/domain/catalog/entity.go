// internal/domain/catalog/entity.go
package catalog

import "github.com/dk-code-insights/storefront/internal/domain/currency"

type Category string

const (
	CategoryWebDevelopment  Category = "web-development"
	CategoryDataAnalytics   Category = "data-analytics"
	CategoryDataScience     Category = "data-science"
	CategoryDigitalServices Category = "digital-services"
)

type Tier string

const (
	TierBasic    Tier = "basic"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
	TierExtra    Tier = "extra"
)

// Product is an immutable catalog entry. Prices are whole currency units.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PriceZAR    int64    `json:"price_zar"`
	PriceUSD    int64    `json:"price_usd"`
	Features    []string `json:"features"`
	Category    Category `json:"category"`
	Tier        Tier     `json:"tier"`
	Popular     bool     `json:"popular,omitempty"`
}

// Price returns the unit price in the given currency.
func (p Product) Price(c currency.Code) int64 {
	return c.Select(p.PriceZAR, p.PriceUSD)
}

type CategoryInfo struct {
	ID          Category `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}
