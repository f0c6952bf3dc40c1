package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

type recordStore struct {
	s *Store
}

func (r *recordStore) Find(_ context.Context, table string, filter repository.Filter, orderBy ...repository.OrderBy) ([]repository.Record, error) {
	r.s.mu.RLock()
	out := make([]repository.Record, 0)
	for _, rec := range r.s.tables[table] {
		if matches(rec, filter) {
			out = append(out, maps.Clone(rec))
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		for _, ob := range orderBy {
			c := compareValues(out[i][ob.Column], out[j][ob.Column])
			if c == 0 {
				continue
			}
			if ob.Desc {
				return c > 0
			}
			return c < 0
		}
		return out[i].String("id") < out[j].String("id")
	})
	return out, nil
}

func (r *recordStore) FindOne(ctx context.Context, table string, filter repository.Filter) (repository.Record, error) {
	list, err := r.Find(ctx, table, filter)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

func (r *recordStore) Insert(_ context.Context, table string, record repository.Record) (repository.Record, error) {
	rec := maps.Clone(record)
	if rec == nil {
		rec = repository.Record{}
	}
	if rec.String("id") == "" {
		rec["id"] = uuid.New().String()
	}
	now := r.s.now()
	rec["created_at"] = now
	rec["updated_at"] = now

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows, ok := r.s.tables[table]
	if !ok {
		rows = make(map[string]repository.Record)
		r.s.tables[table] = rows
	}
	id := rec.String("id")
	if _, exists := rows[id]; exists {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrDuplicate, table, id)
	}
	rows[id] = rec
	return maps.Clone(rec), nil
}

func (r *recordStore) Update(_ context.Context, table, id string, patch repository.Record) (repository.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.tables[table][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for k, v := range patch {
		if k == "id" || k == "created_at" {
			continue
		}
		rec[k] = v
	}
	rec["updated_at"] = r.s.now()
	return maps.Clone(rec), nil
}

func (r *recordStore) Delete(_ context.Context, table, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.s.tables[table]
	if _, ok := rows[id]; !ok {
		return domain.ErrNotFound
	}
	if r.s.recordInUse(table, id) {
		return fmt.Errorf("%w: %s %s en uso", domain.ErrConflict, table, id)
	}
	delete(rows, id)
	return nil
}

// recordInUse emula las llaves foráneas hacia categorías y empleados. Requiere s.mu.
func (s *Store) recordInUse(table, id string) bool {
	switch table {
	case repository.TableCategories:
		for _, p := range s.products {
			if p.CategoryID == id {
				return true
			}
		}
	case repository.TableEmployees:
		for _, m := range s.movements {
			if m.EmployeeID == id {
				return true
			}
		}
	}
	return false
}

func matches(rec repository.Record, filter repository.Filter) bool {
	for k, want := range filter {
		if compareValues(rec[k], want) != 0 {
			return false
		}
	}
	return true
}

// compareValues orden total simple entre valores de columna: nil primero, tiempos y
// números por valor, el resto como texto.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if na, ok := toInt64(a); ok {
		if nb, ok := toInt64(b); ok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
