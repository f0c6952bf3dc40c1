package entity

import "time"

// Balance representa el stock actual de un producto en una bodega (una fila por bodega+producto).
// Quantity son unidades completas; FractionalQuantity el remanente de empaques abiertos
// y solo tiene sentido para productos fraccionables.
type Balance struct {
	WarehouseID        string
	ProductID          string
	Quantity           int64
	FractionalQuantity int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BalanceKey identifica el saldo de un producto en una bodega; se usa como llave de bloqueo.
func BalanceKey(warehouseID, productID string) string {
	return "saldo:" + warehouseID + ":" + productID
}

// Key devuelve la llave de bloqueo del saldo.
func (b Balance) Key() string {
	return BalanceKey(b.WarehouseID, b.ProductID)
}
