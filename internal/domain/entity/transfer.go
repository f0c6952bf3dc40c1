package entity

import "time"

// Transfer registra un traslado entre bodegas: salida de origen y entrada en destino.
// Inmutable una vez creado.
type Transfer struct {
	ID                     string
	ProductID              string
	OriginWarehouseID      string
	DestinationWarehouseID string
	Quantity               int64
	FractionalQuantity     *int64
	Date                   time.Time
	Notes                  string
	CreatedAt              time.Time
}
