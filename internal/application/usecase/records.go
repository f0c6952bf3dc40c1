package usecase

import (
	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// Mapeo entre filas genéricas del RecordStore y entidades.

func categoryFromRecord(r repository.Record) *entity.Category {
	return &entity.Category{
		ID:          r.String("id"),
		Name:        r.String("name"),
		Description: r.String("description"),
		CreatedAt:   r.Time("created_at"),
		UpdatedAt:   r.Time("updated_at"),
	}
}

func employeeFromRecord(r repository.Record) *entity.Employee {
	return &entity.Employee{
		ID:         r.String("id"),
		Name:       r.String("name"),
		Email:      r.String("email"),
		Position:   r.String("position"),
		Department: r.String("department"),
		CreatedAt:  r.Time("created_at"),
		UpdatedAt:  r.Time("updated_at"),
	}
}

func companyFromRecord(r repository.Record) *entity.Company {
	return &entity.Company{
		ID:        r.String("id"),
		Name:      r.String("name"),
		Address:   r.String("address"),
		Phone:     r.String("phone"),
		Email:     r.String("email"),
		TaxID:     r.String("tax_id"),
		CreatedAt: r.Time("created_at"),
		UpdatedAt: r.Time("updated_at"),
	}
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		TaxID:     c.TaxID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
