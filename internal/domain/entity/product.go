package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock se maneja por bodega en Balance.
// Un producto fraccionable lleva además unidades sueltas (p. ej. empaques abiertos);
// UnitsPerPackage indica cuántas unidades trae cada empaque.
type Product struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	CategoryID      string // vacío si no tiene categoría
	Fractionable    bool
	UnitsPerPackage *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProductKey llave de bloqueo del flag fraccionable de un producto. La toman los movimientos
// con unidades fraccionadas y el cambio de fraccionable a no fraccionable.
func ProductKey(productID string) string {
	return "producto:" + productID
}
