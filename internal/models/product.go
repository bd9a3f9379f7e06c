package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory,omitempty"`
	Images          []string  `json:"images"`
	Price           float64   `json:"price"`
	Stock           int       `json:"stock"`
	Dimensions      string    `json:"dimensions,omitempty"`
	Material        string    `json:"material,omitempty"`
	AnimeSeries     string    `json:"anime_series,omitempty"`
	Sizes           []string  `json:"sizes"`
	Colors          []string  `json:"colors"`
	FitType         string    `json:"fit_type,omitempty"`
	PopularityScore int       `json:"popularity_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Subcategory string   `json:"subcategory,omitempty"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Dimensions  string   `json:"dimensions,omitempty"`
	Material    string   `json:"material,omitempty"`
	AnimeSeries string   `json:"anime_series,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	FitType     string   `json:"fit_type,omitempty" validate:"omitempty,oneof=oversized regular"`
}

type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Subcategory *string   `json:"subcategory,omitempty"`
	Images      *[]string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Dimensions  *string   `json:"dimensions,omitempty"`
	Material    *string   `json:"material,omitempty"`
	AnimeSeries *string   `json:"anime_series,omitempty"`
	Sizes       *[]string `json:"sizes,omitempty"`
	Colors      *[]string `json:"colors,omitempty"`
	FitType     *string   `json:"fit_type,omitempty" validate:"omitempty,oneof=oversized regular"`
}

// Sort keys accepted by the catalog listing. price_low and price_high
// carry their own direction; sort_order only applies to created_at.
const (
	SortByCreatedAt  = "created_at"
	SortByPriceLow   = "price_low"
	SortByPriceHigh  = "price_high"
	SortByPopularity = "popularity"
)

type ProductFilter struct {
	Category    string
	Subcategory string
	AnimeSeries string
	Search      string
	SortBy      string
	SortOrder   string
}
