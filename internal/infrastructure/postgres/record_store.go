package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStore)(nil)

// Columnas permitidas por tabla. Los nombres que llegan del caller solo se aceptan si están aquí.
var tableColumns = map[string][]string{
	repository.TableCategories: {"id", "name", "description", "created_at", "updated_at"},
	repository.TableEmployees:  {"id", "name", "email", "position", "department", "created_at", "updated_at"},
	repository.TableCompanies:  {"id", "name", "address", "phone", "email", "tax_id", "created_at", "updated_at"},
}

// Las marcas de tiempo las pone la base de datos.
var managedColumns = []string{"created_at", "updated_at"}

// RecordStore CRUD genérico por tabla sobre PostgreSQL.
type RecordStore struct {
	q Querier
}

// NewRecordStore construye el store genérico. Pasar pool o tx (Querier).
func NewRecordStore(q Querier) *RecordStore {
	return &RecordStore{q: q}
}

func (s *RecordStore) Find(ctx context.Context, table string, filter repository.Filter, orderBy ...repository.OrderBy) ([]repository.Record, error) {
	if hasInvalidID(filter) {
		return []repository.Record{}, nil
	}
	query, args, err := buildSelect(table, filter, orderBy)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", table, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", table, err)
	}
	out := make([]repository.Record, 0, len(maps))
	for _, m := range maps {
		out = append(out, normalizeRecord(m))
	}
	return out, nil
}

func (s *RecordStore) FindOne(ctx context.Context, table string, filter repository.Filter) (repository.Record, error) {
	list, err := s.Find(ctx, table, filter)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list[0], nil
}

func (s *RecordStore) Insert(ctx context.Context, table string, record repository.Record) (repository.Record, error) {
	query, args, err := buildInsert(table, record)
	if err != nil {
		return nil, err
	}
	return s.returningOne(ctx, "insert "+table, query, args)
}

func (s *RecordStore) Update(ctx context.Context, table, id string, patch repository.Record) (repository.Record, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	query, args, err := buildUpdate(table, id, patch)
	if err != nil {
		return nil, err
	}
	return s.returningOne(ctx, "update "+table, query, args)
}

func (s *RecordStore) Delete(ctx context.Context, table, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	query, args, err := buildDelete(table, id)
	if err != nil {
		return err
	}
	cmd, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError("delete "+table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *RecordStore) returningOne(ctx context.Context, op, query string, args []any) (repository.Record, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapWriteError(op, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapWriteError(op, err)
	}
	return normalizeRecord(m), nil
}

// normalizeRecord deja los UUID como texto.
func normalizeRecord(m map[string]any) repository.Record {
	rec := repository.Record(m)
	if _, ok := rec["id"].([16]byte); ok {
		rec["id"] = rec.String("id")
	}
	return rec
}

func hasInvalidID(filter repository.Filter) bool {
	id, ok := filter["id"].(string)
	return ok && !validID(id)
}

// ────────────────────────────────────────────────────────────────────────────
// Construcción de SQL
// ────────────────────────────────────────────────────────────────────────────

func columnsOf(table string) ([]string, error) {
	cols, ok := tableColumns[table]
	if !ok {
		return nil, fmt.Errorf("%w: tabla %q", domain.ErrInvalidInput, table)
	}
	return cols, nil
}

func checkColumn(table string, cols []string, col string) error {
	if !slices.Contains(cols, col) {
		return fmt.Errorf("%w: columna %q en %s", domain.ErrInvalidInput, col, table)
	}
	return nil
}

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

func selectList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ident(c)
	}
	return strings.Join(quoted, ", ")
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildSelect(table string, filter repository.Filter, orderBy []repository.OrderBy) (string, []any, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	sb.WriteString("SELECT " + selectList(cols) + " FROM " + ident(table))

	args := make([]any, 0, len(filter))
	for i, k := range sortedKeys(filter) {
		if err := checkColumn(table, cols, k); err != nil {
			return "", nil, err
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, filter[k])
		fmt.Fprintf(&sb, "%s = $%d", ident(k), len(args))
	}

	for i, ob := range orderBy {
		if err := checkColumn(table, cols, ob.Column); err != nil {
			return "", nil, err
		}
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		dir := "ASC"
		if ob.Desc {
			dir = "DESC"
		}
		sb.WriteString(ident(ob.Column) + " " + dir)
	}
	return sb.String(), args, nil
}

func buildInsert(table string, record repository.Record) (string, []any, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return "", nil, err
	}
	var names, params []string
	var args []any
	for _, k := range sortedKeys(record) {
		if slices.Contains(managedColumns, k) {
			continue
		}
		if err := checkColumn(table, cols, k); err != nil {
			return "", nil, err
		}
		args = append(args, record[k])
		names = append(names, ident(k))
		params = append(params, fmt.Sprintf("$%d", len(args)))
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("%w: registro vacío", domain.ErrInvalidInput)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		ident(table), strings.Join(names, ", "), strings.Join(params, ", "), selectList(cols))
	return query, args, nil
}

func buildUpdate(table, id string, patch repository.Record) (string, []any, error) {
	cols, err := columnsOf(table)
	if err != nil {
		return "", nil, err
	}
	var sets []string
	var args []any
	for _, k := range sortedKeys(patch) {
		if k == "id" || slices.Contains(managedColumns, k) {
			continue
		}
		if err := checkColumn(table, cols, k); err != nil {
			return "", nil, err
		}
		args = append(args, patch[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(k), len(args)))
	}
	sets = append(sets, ident("updated_at")+" = now()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		ident(table), strings.Join(sets, ", "), ident("id"), len(args), selectList(cols))
	return query, args, nil
}

func buildDelete(table, id string) (string, []any, error) {
	if _, err := columnsOf(table); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(table), ident("id")), []any{id}, nil
}
