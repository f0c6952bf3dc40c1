package dto

import "time"

// RecordMovementRequest body para POST /api/inventory/movements.
type RecordMovementRequest struct {
	ProductID          string `json:"product_id"`
	WarehouseID        string `json:"warehouse_id"`
	Type               string `json:"type"` // entrada | salida
	Quantity           int64  `json:"quantity"`
	FractionalQuantity *int64 `json:"fractional_quantity,omitempty"`
	EmployeeID         string `json:"employee_id"`
	Date               string `json:"date,omitempty"` // YYYY-MM-DD, vacío = hoy
	Notes              string `json:"notes,omitempty"`
}

// RecordTransferRequest body para POST /api/inventory/transfers.
type RecordTransferRequest struct {
	ProductID              string `json:"product_id"`
	OriginWarehouseID      string `json:"origin_warehouse_id"`
	DestinationWarehouseID string `json:"destination_warehouse_id"`
	Quantity               int64  `json:"quantity"`
	FractionalQuantity     *int64 `json:"fractional_quantity,omitempty"`
	Date                   string `json:"date,omitempty"`
	Notes                  string `json:"notes,omitempty"`
}

// MovementResponse salida de un movimiento de kardex.
type MovementResponse struct {
	ID                 string    `json:"id"`
	ProductID          string    `json:"product_id"`
	WarehouseID        string    `json:"warehouse_id"`
	Type               string    `json:"type"`
	Quantity           int64     `json:"quantity"`
	FractionalQuantity *int64    `json:"fractional_quantity,omitempty"`
	Date               string    `json:"date"`
	EmployeeID         string    `json:"employee_id"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// TransferResponse salida de un traslado entre bodegas.
type TransferResponse struct {
	ID                     string    `json:"id"`
	ProductID              string    `json:"product_id"`
	OriginWarehouseID      string    `json:"origin_warehouse_id"`
	DestinationWarehouseID string    `json:"destination_warehouse_id"`
	Quantity               int64     `json:"quantity"`
	FractionalQuantity     *int64    `json:"fractional_quantity,omitempty"`
	Date                   string    `json:"date"`
	Notes                  string    `json:"notes,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// BalanceResponse saldo de un producto en una bodega, con datos del producto.
type BalanceResponse struct {
	WarehouseID        string     `json:"warehouse_id"`
	ProductID          string     `json:"product_id"`
	ProductName        string     `json:"product_name,omitempty"`
	Fractionable       bool       `json:"fractionable"`
	UnitsPerPackage    *int64     `json:"units_per_package,omitempty"`
	Quantity           int64      `json:"quantity"`
	FractionalQuantity int64      `json:"fractional_quantity"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// MovementListResponse lista paginada del kardex.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceListResponse inventario de una bodega.
type BalanceListResponse struct {
	WarehouseID string            `json:"warehouse_id"`
	Items       []BalanceResponse `json:"items"`
}
