package domain

import (
	"time"

	"github.com/VISCOUS-ASH/ElectroStore/internal/pricing"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySmartphones Category = "smartphones"
	CategoryLaptops     Category = "laptops"
	CategoryAudio       Category = "audio"
	CategoryWearables   Category = "wearables"
	CategoryAccessories Category = "accessories"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySmartphones, CategoryLaptops, CategoryAudio, CategoryWearables, CategoryAccessories:
		return true
	}
	return false
}

type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Brand         string            `json:"brand"`
	Price         decimal.Decimal   `json:"price"`
	OriginalPrice decimal.Decimal   `json:"original_price"`
	Category      Category          `json:"category"`
	Description   string            `json:"description"`
	Specs         map[string]string `json:"specs,omitempty"`
	ImageURL      string            `json:"image_url"`
	Rating        float64           `json:"rating"`
	ReviewCount   int               `json:"review_count"`
	InStock       bool              `json:"in_stock"`
	Featured      bool              `json:"featured"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// DiscountPercent is the badge value shown on product cards.
func (p *Product) DiscountPercent() int64 {
	return pricing.DiscountPercent(p.OriginalPrice, p.Price)
}
