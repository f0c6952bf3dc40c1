package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// EmployeeUseCase CRUD de empleados sobre el RecordStore.
type EmployeeUseCase struct {
	store repository.RecordStore
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(store repository.RecordStore) *EmployeeUseCase {
	return &EmployeeUseCase{store: store}
}

func (uc *EmployeeUseCase) Create(ctx context.Context, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rec, err := uc.store.Insert(ctx, repository.TableEmployees, employeeRecord(in))
	if err != nil {
		return nil, err
	}
	out := toEmployeeResponse(employeeFromRecord(rec))
	return &out, nil
}

func (uc *EmployeeUseCase) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	rec, err := uc.store.FindOne(ctx, repository.TableEmployees, repository.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	out := toEmployeeResponse(employeeFromRecord(rec))
	return &out, nil
}

func (uc *EmployeeUseCase) Update(ctx context.Context, id string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	patch := employeeRecord(in)
	delete(patch, "id")
	rec, err := uc.store.Update(ctx, repository.TableEmployees, id, patch)
	if err != nil {
		return nil, err
	}
	out := toEmployeeResponse(employeeFromRecord(rec))
	return &out, nil
}

// List devuelve el personal ordenado por nombre.
func (uc *EmployeeUseCase) List(ctx context.Context) ([]dto.EmployeeResponse, error) {
	recs, err := uc.store.Find(ctx, repository.TableEmployees, nil, repository.OrderBy{Column: "name"})
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmployeeResponse, 0, len(recs))
	for _, r := range recs {
		items = append(items, toEmployeeResponse(employeeFromRecord(r)))
	}
	return items, nil
}

// Delete falla con domain.ErrConflict si el empleado firmó movimientos.
func (uc *EmployeeUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Delete(ctx, repository.TableEmployees, id)
}

func employeeRecord(in dto.EmployeeRequest) repository.Record {
	return repository.Record{
		"id":         uuid.New().String(),
		"name":       in.Name,
		"email":      in.Email,
		"position":   in.Position,
		"department": in.Department,
	}
}
