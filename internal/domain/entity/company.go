package entity

import "time"

// Company datos de la empresa dueña del inventario (una sola fila).
type Company struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
