package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// CompanyUseCase datos de la empresa (una sola fila).
type CompanyUseCase struct {
	store repository.RecordStore
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(store repository.RecordStore) *CompanyUseCase {
	return &CompanyUseCase{store: store}
}

// Get devuelve la empresa o domain.ErrNotFound si aún no se ha configurado.
func (uc *CompanyUseCase) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	rec, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(companyFromRecord(rec)), nil
}

// Save crea la empresa la primera vez y la actualiza en adelante.
func (uc *CompanyUseCase) Save(ctx context.Context, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	fields := repository.Record{
		"name":    in.Name,
		"address": in.Address,
		"phone":   in.Phone,
		"email":   in.Email,
		"tax_id":  in.TaxID,
	}
	existing, err := uc.current(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fields["id"] = uuid.New().String()
		rec, err := uc.store.Insert(ctx, repository.TableCompanies, fields)
		if err != nil {
			return nil, err
		}
		return toCompanyResponse(companyFromRecord(rec)), nil
	case err != nil:
		return nil, err
	}
	rec, err := uc.store.Update(ctx, repository.TableCompanies, existing.String("id"), fields)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(companyFromRecord(rec)), nil
}

func (uc *CompanyUseCase) current(ctx context.Context) (repository.Record, error) {
	recs, err := uc.store.Find(ctx, repository.TableCompanies, nil, repository.OrderBy{Column: "created_at"})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, domain.ErrNotFound
	}
	return recs[0], nil
}
