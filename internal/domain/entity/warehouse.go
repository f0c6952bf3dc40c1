package entity

import "time"

// Tipos de bodega.
const (
	WarehouseKindBlanca = "blanca"
	WarehouseKindOscura = "oscura"
)

// Warehouse representa una bodega donde se almacena inventario.
type Warehouse struct {
	ID        string
	Name      string
	Kind      string // blanca, oscura
	City      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
