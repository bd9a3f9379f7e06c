package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int       `json:"quantity"`
	SelectedSize  string    `json:"selected_size,omitempty"`
	SelectedColor string    `json:"selected_color,omitempty"`
	SelectedFit   string    `json:"selected_fit,omitempty"`
}

// SameVariant reports whether two lines are the same cart entry. The
// variant key is (product, size, color); fit is carried but deliberately
// excluded, so lines differing only in fit merge.
func (i CartItem) SameVariant(other CartItem) bool {
	return i.ProductID == other.ProductID &&
		i.SelectedSize == other.SelectedSize &&
		i.SelectedColor == other.SelectedColor
}

type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type AddItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	SelectedSize  string    `json:"selected_size,omitempty"`
	SelectedColor string    `json:"selected_color,omitempty"`
	SelectedFit   string    `json:"selected_fit,omitempty"`
}
