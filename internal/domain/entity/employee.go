package entity

import "time"

// Employee representa a una persona del personal; firma los movimientos de kardex.
type Employee struct {
	ID         string
	Name       string
	Email      string
	Position   string
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
