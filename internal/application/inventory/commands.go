package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// RecordMovementCommand entrada tipada para registrar una entrada o salida de kardex.
type RecordMovementCommand struct {
	ProductID          string              `validate:"required,max=64"`
	WarehouseID        string              `validate:"required,max=64"`
	Type               entity.MovementType `validate:"required,oneof=entrada salida"`
	Quantity           int64               `validate:"gte=0"`
	FractionalQuantity *int64              `validate:"omitempty,gte=0"`
	EmployeeID         string              `validate:"required,max=64"`
	Date               time.Time           // cero = hoy
	Notes              string              `validate:"max=500"`
}

// Validate revisa todos los campos antes de tocar el store.
func (c RecordMovementCommand) Validate() error {
	if err := dto.Validate(c); err != nil {
		return err
	}
	return requirePositiveAmount(c.Quantity, c.FractionalQuantity)
}

// RecordTransferCommand entrada tipada para trasladar stock entre dos bodegas.
type RecordTransferCommand struct {
	ProductID              string    `validate:"required,max=64"`
	OriginWarehouseID      string    `validate:"required,max=64"`
	DestinationWarehouseID string    `validate:"required,max=64"`
	Quantity               int64     `validate:"gte=0"`
	FractionalQuantity     *int64    `validate:"omitempty,gte=0"`
	Date                   time.Time // cero = hoy
	Notes                  string    `validate:"max=500"`
}

// Validate revisa todos los campos antes de tocar el store.
func (c RecordTransferCommand) Validate() error {
	if err := dto.Validate(c); err != nil {
		return err
	}
	if c.OriginWarehouseID == c.DestinationWarehouseID {
		return domain.ErrSameWarehouse
	}
	return requirePositiveAmount(c.Quantity, c.FractionalQuantity)
}

func requirePositiveAmount(qty int64, frac *int64) error {
	if qty <= 0 && fractional(frac) <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return nil
}

// fractional normaliza la cantidad fraccionada opcional (nil = 0).
func fractional(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// storedFraction devuelve nil cuando no hubo unidades fraccionadas, para no registrar ceros.
func storedFraction(v *int64) *int64 {
	if v == nil || *v == 0 {
		return nil
	}
	f := *v
	return &f
}
