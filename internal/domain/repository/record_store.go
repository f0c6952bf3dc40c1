package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tablas genéricas servidas por el RecordStore.
const (
	TableCategories = "categories"
	TableEmployees  = "employees"
	TableCompanies  = "companies"
)

// Record fila genérica (columna → valor).
type Record map[string]any

// Filter igualdad por columna; todas las condiciones se combinan con AND.
type Filter map[string]any

// OrderBy orden de un listado.
type OrderBy struct {
	Column string
	Desc   bool
}

// RecordStore CRUD genérico por tabla y filtro. FindOne, Update y Delete devuelven
// domain.ErrNotFound si no hay fila; cualquier otro error es de transporte/persistencia.
type RecordStore interface {
	Find(ctx context.Context, table string, filter Filter, orderBy ...OrderBy) ([]Record, error)
	FindOne(ctx context.Context, table string, filter Filter) (Record, error)
	Insert(ctx context.Context, table string, record Record) (Record, error)
	Update(ctx context.Context, table, id string, patch Record) (Record, error)
	Delete(ctx context.Context, table, id string) error
}

// String devuelve la columna como texto ("" si falta o es nil).
func (r Record) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	case fmt.Stringer:
		return v.String()
	case [16]byte:
		return uuid.UUID(v).String()
	}
	return ""
}

// Time devuelve la columna como time.Time (cero si falta).
func (r Record) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}
