package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"category_id"`
	Rating     *float64        `json:"rating,omitempty"`
	Stock      *int            `json:"stock,omitempty"`
	ImageURL   string          `json:"image_url,omitempty"`
}

// RatingOrZero treats a missing rating as 0.
func (p Product) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// InStock reports false only when the catalog explicitly says zero are left.
func (p Product) InStock() bool {
	return p.Stock == nil || *p.Stock > 0
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
