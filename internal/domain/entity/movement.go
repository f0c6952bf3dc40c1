package entity

import "time"

// MovementType tipo de movimiento de kardex.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada MovementType = "entrada" // ingreso de stock
	MovementTypeSalida  MovementType = "salida"  // egreso de stock
)

// Valid indica si el tipo es entrada o salida.
func (t MovementType) Valid() bool {
	return t == MovementTypeEntrada || t == MovementTypeSalida
}

// Movement es un registro de auditoría del kardex: un único evento de stock en una bodega.
// Inmutable una vez creado.
type Movement struct {
	ID                 string
	ProductID          string
	WarehouseID        string
	Type               MovementType
	Quantity           int64
	FractionalQuantity *int64 // nil si no se movieron unidades fraccionadas
	Date               time.Time
	EmployeeID         string
	Notes              string
	CreatedAt          time.Time
}
