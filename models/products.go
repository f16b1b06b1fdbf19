package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Brand        string    `json:"brand" validate:"required"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" validate:"gte=0"`
	Sizes        []string  `json:"sizes"`
	Colors       []string  `json:"colors"`
	Image        *string   `json:"image"`
	CountInStock int       `json:"count_in_stock" validate:"gte=0"`
	Rating       float64   `json:"rating" validate:"gte=0,lte=5"`
	NumReviews   int       `json:"num_reviews" validate:"gte=0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductInput carries the fields of a create or update request. Nil
// fields are left untouched on update.
type ProductInput struct {
	Name         *string  `json:"name"`
	Brand        *string  `json:"brand"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Sizes        []string `json:"sizes"`
	Colors       []string `json:"colors"`
	CountInStock *int     `json:"count_in_stock"`
	Rating       *float64 `json:"rating"`
	NumReviews   *int     `json:"num_reviews"`
}

// UnmarshalJSON also accepts the camelCase keys countInStock and
// numReviews used by the admin form and the sortBy parameter.
func (in *ProductInput) UnmarshalJSON(b []byte) error {
	type plain ProductInput
	var aux struct {
		plain
		CamelCountInStock *int `json:"countInStock"`
		CamelNumReviews   *int `json:"numReviews"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*in = ProductInput(aux.plain)
	if in.CountInStock == nil {
		in.CountInStock = aux.CamelCountInStock
	}
	if in.NumReviews == nil {
		in.NumReviews = aux.CamelNumReviews
	}
	return nil
}

// Apply copies every provided field of in onto p. Text fields are
// trimmed so a blank name fails the required check.
func (in ProductInput) Apply(p *Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Sizes != nil {
		p.Sizes = in.Sizes
	}
	if in.Colors != nil {
		p.Colors = in.Colors
	}
	if in.CountInStock != nil {
		p.CountInStock = *in.CountInStock
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.NumReviews != nil {
		p.NumReviews = *in.NumReviews
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sortable product fields, keyed by their query-string name.
const (
	SortByName         = "name"
	SortByBrand        = "brand"
	SortByPrice        = "price"
	SortByRating       = "rating"
	SortByCountInStock = "countInStock"
	SortByNumReviews   = "numReviews"
	SortByCreatedAt    = "createdAt"
	SortByUpdatedAt    = "updatedAt"
)

// ProductQuery is a validated list request.
type ProductQuery struct {
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder SortOrder
	Page      int
	Limit     int
}

func (q ProductQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

type ProductsListResp struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
