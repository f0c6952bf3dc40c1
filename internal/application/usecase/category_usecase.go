package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías sobre el RecordStore.
type CategoryUseCase struct {
	store repository.RecordStore
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(store repository.RecordStore) *CategoryUseCase {
	return &CategoryUseCase{store: store}
}

func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rec, err := uc.store.Insert(ctx, repository.TableCategories, repository.Record{
		"id":          uuid.New().String(),
		"name":        in.Name,
		"description": in.Description,
	})
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(categoryFromRecord(rec))
	return &out, nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	rec, err := uc.store.FindOne(ctx, repository.TableCategories, repository.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(categoryFromRecord(rec))
	return &out, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rec, err := uc.store.Update(ctx, repository.TableCategories, id, repository.Record{
		"name":        in.Name,
		"description": in.Description,
	})
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(categoryFromRecord(rec))
	return &out, nil
}

// List devuelve todas las categorías ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	recs, err := uc.store.Find(ctx, repository.TableCategories, nil, repository.OrderBy{Column: "name"})
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(recs))
	for _, r := range recs {
		items = append(items, toCategoryResponse(categoryFromRecord(r)))
	}
	return items, nil
}

// Delete falla con domain.ErrConflict si hay productos en la categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Delete(ctx, repository.TableCategories, id)
}
