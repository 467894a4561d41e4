package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/camstock/internal/domain"
	"github.com/vbonduro/camstock/internal/inventory"
	"github.com/vbonduro/camstock/internal/query"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Schema maps one entity type onto one table. Fields[0] is the key column;
// Values and Scan use the order of Fields.
type Schema[T domain.Entity] struct {
	Table  string
	Fields query.Fields
	Values func(T) []any
	Scan   func(Scanner) (T, error)
}

// Table stores one entity type in one SQL table. Every Insert, Update and
// Delete call runs in its own transaction.
type Table[T domain.Entity] struct {
	db      *sql.DB
	dialect query.Dialect
	schema  Schema[T]
}

func NewTable[T domain.Entity](db *sql.DB, dialect query.Dialect, schema Schema[T]) *Table[T] {
	return &Table[T]{db: db, dialect: dialect, schema: schema}
}

func (t *Table[T]) key() string {
	return t.schema.Fields[0].Name
}

func (t *Table[T]) columns() []string {
	cols := make([]string, len(t.schema.Fields))
	for i, f := range t.schema.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Find returns the records matching an RQL condition string.
func (t *Table[T]) Find(ctx context.Context, conditions string) ([]T, error) {
	q, err := query.Parse(conditions, t.schema.Fields)
	if err != nil {
		return nil, err
	}
	rendered := q.SQL(t.dialect, t.key())

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(t.columns(), ", "), t.schema.Table)
	if rendered.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(rendered.Where)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(rendered.OrderBy)
	b.WriteString(t.dialect.Paging(rendered.Limit, rendered.Offset))

	rows, err := t.db.QueryContext(ctx, b.String(), rendered.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.schema.Table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var out []T
	for rows.Next() {
		item, err := t.schema.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.schema.Table, err)
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", t.schema.Table, err)
	}

	return out, nil
}

func (t *Table[T]) Insert(ctx context.Context, items []T) error {
	cols := t.columns()
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = t.dialect.Placeholder(i + 1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.schema.Table, strings.Join(cols, ", "), strings.Join(marks, ", "))

	return t.each(ctx, stmt, items, func(item T) []any {
		return t.schema.Values(item)
	}, func(item T, _ sql.Result) error {
		return nil
	})
}

func (t *Table[T]) Update(ctx context.Context, items []T) error {
	cols := t.columns()
	sets := make([]string, 0, len(cols)-1)
	for i, c := range cols[1:] {
		sets = append(sets, fmt.Sprintf("%s = %s", c, t.dialect.Placeholder(i+1)))
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		t.schema.Table, strings.Join(sets, ", "), t.key(), t.dialect.Placeholder(len(cols)))

	return t.each(ctx, stmt, items, func(item T) []any {
		values := t.schema.Values(item)
		return append(values[1:], values[0])
	}, t.requireRow)
}

func (t *Table[T]) Delete(ctx context.Context, items []T) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", t.schema.Table, t.key(), t.dialect.Placeholder(1))

	return t.each(ctx, stmt, items, func(item T) []any {
		return []any{item.Key()}
	}, t.requireRow)
}

func (t *Table[T]) requireRow(item T, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s %d", inventory.ErrNotFound, t.schema.Table, item.Key())
	}
	return nil
}

// each executes stmt once per item inside one transaction. Any failure rolls
// the whole batch back.
func (t *Table[T]) each(ctx context.Context, stmt string, items []T, args func(T) []any, check func(T, sql.Result) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := t.execAll(ctx, tx, stmt, items, args, check); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			slog.Error("failed to roll back transaction", "table", t.schema.Table, "error", rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", t.schema.Table, err)
	}
	return nil
}

func (t *Table[T]) execAll(ctx context.Context, tx *sql.Tx, stmt string, items []T, args func(T) []any, check func(T, sql.Result) error) error {
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for %s: %w", t.schema.Table, err)
	}
	defer func() {
		if err := prepared.Close(); err != nil {
			slog.Error("failed to close statement", "error", err)
		}
	}()

	for _, item := range items {
		result, err := prepared.ExecContext(ctx, args(item)...)
		if err != nil {
			return fmt.Errorf("failed to write %s %d: %w", t.schema.Table, item.Key(), err)
		}
		if err := check(item, result); err != nil {
			return err
		}
	}
	return nil
}
