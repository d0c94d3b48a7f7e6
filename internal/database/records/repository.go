// Package records provides record-type-agnostic data access on top of gorm.
//
// A Repository is bound to one record type T and its Schema. Every field
// named by a caller is checked against the schema before any SQL is built,
// so a mistyped field fails fast with ErrInvalidField instead of turning
// into a silently ignored column.
//
// # Usage
//
//	repo := records.New[entities.User](db, usersSchema)
//	user, err := repo.InsertOrUpdate(ctx, records.Values{"tg_id": int64(42)})
//	rows, err := repo.Find(ctx, nil, records.Filters{"id": []uint{1, 2}})
//	n, err := repo.DeleteMany(ctx, records.ByKey(user.ID))
//
// None of the methods commit: run them on a transaction handle
// (see database.Database.Transaction) to control the unit of work.
package records

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Values maps fields to the values to write.
type Values map[Field]any

// Filters maps fields to a value or a slice of accepted values.
type Filters map[Field]any

// Selector picks the rows an update or delete applies to. Key, when set,
// takes priority over Filters.
type Selector struct {
	Key     any
	Filters Filters
}

// ByKey selects the row with the given primary key value.
func ByKey(key any) Selector {
	return Selector{Key: key}
}

// Where selects rows matching all filters.
func Where(filters Filters) Selector {
	return Selector{Filters: filters}
}

// Repository implements insert-or-update, find, update and delete for one record type.
type Repository[T any] struct {
	db     *gorm.DB
	schema Schema
}

// New binds a repository to db (a connection or a transaction) and a schema.
func New[T any](db *gorm.DB, schema Schema) *Repository[T] {
	return &Repository[T]{db: db, schema: schema}
}

// DB returns the handle the repository runs on.
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) quote(name string) string {
	var b strings.Builder
	r.db.Dialector.QuoteTo(&b, name)
	return b.String()
}

func (r *Repository[T]) quoteAll(fields []Field) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = r.quote(string(f))
	}
	return strings.Join(quoted, ", ")
}

// InsertOrUpdate inserts a row built from values and returns it with every field set.
//
// When any of the given fields is unique (or part of the primary key) the
// insert becomes an upsert on those fields: on conflict the first
// non-generated field is set to its own current value, which makes the
// database hand back the existing row. Without unique fields it is a plain
// insert.
func (r *Repository[T]) InsertOrUpdate(ctx context.Context, values Values) (*T, error) {
	target, ok := r.schema.upsertTarget()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAllFieldsAreKeys, r.schema.Table)
	}
	if err := r.schema.validate(keys(values)...); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: insert into %s", ErrNoValues, r.schema.Table)
	}

	cols := ordered(r.schema, values)
	args := make([]any, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	var conflict []Field
	for _, f := range cols {
		args = append(args, values[f])
		placeholders = append(placeholders, "?")
		if r.schema.isConflictTarget(f) {
			conflict = append(conflict, f)
		}
	}

	table := r.quote(r.schema.Table)
	var sql strings.Builder
	fmt.Fprintf(&sql, "INSERT INTO %s (%s) VALUES (%s)", table, r.quoteAll(cols), strings.Join(placeholders, ", "))
	if len(conflict) > 0 {
		fmt.Fprintf(&sql, " ON CONFLICT (%s) DO UPDATE SET %s = %s.%s",
			r.quoteAll(conflict), r.quote(string(target)), table, r.quote(string(target)))
	}
	fmt.Fprintf(&sql, " RETURNING %s", r.quoteAll(r.schema.Fields()))

	var rows []T
	if err := r.conn(ctx).Raw(sql.String(), args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("insert into %s: %w", r.schema.Table, err)
	}
	if len(rows) > 0 {
		return &rows[0], nil
	}

	// The engine did not return the row; read it back by its unique fields
	// on the same connection so a concurrent delete cannot slip in between.
	if len(conflict) > 0 {
		filters := make(Filters, len(conflict))
		for _, f := range conflict {
			filters[f] = values[f]
		}
		found, err := r.Find(ctx, nil, filters)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return &found[0], nil
		}
	}
	return nil, fmt.Errorf("insert into %s returned no row", r.schema.Table)
}

// Find returns the given fields (all when empty) of rows whose filter fields
// hold one of the listed values. Rows come back ordered by primary key; the
// result is never nil.
func (r *Repository[T]) Find(ctx context.Context, fields []Field, filters Filters) ([]T, error) {
	if err := r.schema.validate(fields...); err != nil {
		return nil, err
	}
	if err := r.schema.validate(keys(filters)...); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		fields = r.schema.Fields()
	}

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}

	query := r.conn(ctx).Table(r.schema.Table).Select(names)
	for _, f := range ordered(r.schema, filters) {
		query = query.Where(clause.IN{Column: clause.Column{Name: string(f)}, Values: valueList(filters[f])})
	}
	for _, pk := range r.schema.PrimaryKey() {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: string(pk)}})
	}

	rows := make([]T, 0)
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find in %s: %w", r.schema.Table, err)
	}
	return rows, nil
}

// UpdateOne writes values to the row with sel.Key, or to the rows equal to
// every filter, and returns the first updated row. It returns nil, nil when
// nothing matched.
func (r *Repository[T]) UpdateOne(ctx context.Context, sel Selector, values Values) (*T, error) {
	if err := r.schema.validate(keys(values)...); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: update %s", ErrNoValues, r.schema.Table)
	}
	conds, args, err := r.equalityConditions(sel)
	if err != nil {
		return nil, err
	}

	cols := ordered(r.schema, values)
	sets := make([]string, 0, len(cols))
	setArgs := make([]any, 0, len(cols)+len(args))
	for _, f := range cols {
		sets = append(sets, r.quote(string(f))+" = ?")
		setArgs = append(setArgs, values[f])
	}
	setArgs = append(setArgs, args...)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s",
		r.quote(r.schema.Table), strings.Join(sets, ", "), strings.Join(conds, " AND "), r.quoteAll(r.schema.Fields()))

	var rows []T
	if err := r.conn(ctx).Raw(sql, setArgs...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("update %s: %w", r.schema.Table, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// DeleteMany deletes the row with sel.Key (filters are ignored then), or all
// rows matching the filters with the same value-or-list semantics as Find.
// It returns the number of rows deleted.
func (r *Repository[T]) DeleteMany(ctx context.Context, sel Selector) (int64, error) {
	query := r.conn(ctx).Table(r.schema.Table)

	switch {
	case sel.Key != nil:
		pk, err := r.singleKey()
		if err != nil {
			return 0, err
		}
		query = query.Where(clause.Eq{Column: clause.Column{Name: string(pk)}, Value: sel.Key})
	case len(sel.Filters) > 0:
		if err := r.schema.validate(keys(sel.Filters)...); err != nil {
			return 0, err
		}
		for _, f := range ordered(r.schema, sel.Filters) {
			query = query.Where(clause.IN{Column: clause.Column{Name: string(f)}, Values: valueList(sel.Filters[f])})
		}
	default:
		return 0, fmt.Errorf("%w: delete from %s", ErrMissingSelector, r.schema.Table)
	}

	result := query.Delete(new(T))
	if result.Error != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.schema.Table, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *Repository[T]) singleKey() (Field, error) {
	pk := r.schema.PrimaryKey()
	if len(pk) != 1 {
		return "", fmt.Errorf("%w: %s", ErrCompositeKey, r.schema.Table)
	}
	return pk[0], nil
}

// equalityConditions renders sel as "col = ?" conditions for raw statements.
func (r *Repository[T]) equalityConditions(sel Selector) ([]string, []any, error) {
	if sel.Key != nil {
		pk, err := r.singleKey()
		if err != nil {
			return nil, nil, err
		}
		return []string{r.quote(string(pk)) + " = ?"}, []any{sel.Key}, nil
	}
	if len(sel.Filters) == 0 {
		return nil, nil, fmt.Errorf("%w: update %s", ErrMissingSelector, r.schema.Table)
	}
	if err := r.schema.validate(keys(sel.Filters)...); err != nil {
		return nil, nil, err
	}

	fields := ordered(r.schema, sel.Filters)
	conds := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		conds = append(conds, r.quote(string(f))+" = ?")
		args = append(args, sel.Filters[f])
	}
	return conds, args, nil
}

// valueList turns a filter value into the list of accepted values.
// Byte slices are single values, not lists.
func valueList(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
