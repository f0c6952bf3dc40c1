package stock

import (
	"fmt"
	"math"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// Direction sentido del ajuste sobre un saldo.
type Direction int

const (
	// Credit suma al saldo (entrada, destino de traslado).
	Credit Direction = iota + 1
	// Debit resta del saldo (salida, origen de traslado).
	Debit
)

func (d Direction) String() string {
	switch d {
	case Credit:
		return "credit"
	case Debit:
		return "debit"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Adjustment describe un ajuste de saldo. Fractional en cero significa "sin fraccionadas":
// unidades completas y fraccionadas son ejes independientes.
// Fractionable lo resuelve quien llama a partir del producto.
type Adjustment struct {
	Direction    Direction
	Quantity     int64
	Fractional   int64
	Fractionable bool
}

// Apply calcula el nuevo saldo a partir del saldo actual (servicio de dominio, sin I/O).
// En un débito verifica suficiencia en ambos ejes antes de calcular; si falla devuelve
// ErrInsufficientStock y el saldo recibido sin cambios.
func Apply(current entity.Balance, adj Adjustment) (entity.Balance, error) {
	if adj.Quantity < 0 || adj.Fractional < 0 {
		return current, fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	if adj.Fractional > 0 && !adj.Fractionable {
		return current, domain.ErrFractionNotAllowed
	}

	next := current
	switch adj.Direction {
	case Credit:
		if adj.Quantity > math.MaxInt64-current.Quantity {
			return current, fmt.Errorf("%w: la entrada desborda el saldo de unidades", domain.ErrInvalidInput)
		}
		if adj.Fractional > math.MaxInt64-current.FractionalQuantity {
			return current, fmt.Errorf("%w: la entrada desborda el saldo fraccionado", domain.ErrInvalidInput)
		}
		next.Quantity = current.Quantity + adj.Quantity
		if adj.Fractional > 0 {
			next.FractionalQuantity = current.FractionalQuantity + adj.Fractional
		}
	case Debit:
		if current.Quantity < adj.Quantity {
			return current, domain.ErrInsufficientStock
		}
		if adj.Fractional > 0 && current.FractionalQuantity < adj.Fractional {
			return current, domain.ErrInsufficientStock
		}
		next.Quantity = current.Quantity - adj.Quantity
		if adj.Fractional > 0 {
			next.FractionalQuantity = current.FractionalQuantity - adj.Fractional
		}
	default:
		return current, fmt.Errorf("%w: dirección %s", domain.ErrInvalidInput, adj.Direction)
	}
	return next, nil
}
