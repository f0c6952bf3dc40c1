package dto

import "time"

// EmployeeRequest entrada para crear o actualizar un empleado.
type EmployeeRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Email      string `json:"email" validate:"omitempty,email"`
	Position   string `json:"position" validate:"max=120"`
	Department string `json:"department" validate:"max=120"`
}

// EmployeeResponse salida de un empleado.
type EmployeeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
