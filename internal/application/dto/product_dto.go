package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Description     string          `json:"description" validate:"max=1000"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      string          `json:"category_id" validate:"omitempty,max=64"`
	Fractionable    bool            `json:"fractionable"`
	UnitsPerPackage *int64          `json:"units_per_package" validate:"omitempty,gt=0"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock se maneja vía movimientos).
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description" validate:"omitempty,max=1000"`
	Price           *decimal.Decimal `json:"price"`
	CategoryID      *string          `json:"category_id" validate:"omitempty,max=64"`
	Fractionable    *bool            `json:"fractionable"`
	UnitsPerPackage *int64           `json:"units_per_package" validate:"omitempty,gt=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      string          `json:"category_id,omitempty"`
	Fractionable    bool            `json:"fractionable"`
	UnitsPerPackage *int64          `json:"units_per_package,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
