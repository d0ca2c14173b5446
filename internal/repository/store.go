// Package repository is a generic row store over the six record tables. It
// validates field names against a per-table whitelist and returns rows as
// plain maps keyed by column name.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aasthafoundation/careboard/internal/db"
)

type Record = map[string]any

type Store struct {
	db  *db.DB
	now func() time.Time
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d, now: func() time.Time { return time.Now().UTC() }}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// EnsureSchema creates missing tables and indexes. Existing tables are left
// untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, t.createSQL(s.db.Dialect)); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
		if _, err := s.db.ExecContext(ctx, t.indexSQL()); err != nil {
			return fmt.Errorf("create index on %s: %w", t.Name, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func table(name string) (Table, error) {
	t, ok := LookupTable(name)
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return t, nil
}

// List returns every row ordered by insertion time.
func (s *Store) List(ctx context.Context, tableName string) ([]Record, error) {
	t, err := table(tableName)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC", strings.Join(t.selectList(), ", "), t.Name, colCreatedAt)
	return s.query(ctx, s.db, t, q)
}

func (s *Store) Get(ctx context.Context, tableName, id string) (Record, error) {
	t, err := table(tableName)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(t.selectList(), ", "), t.Name, colID, s.db.Dialect.Placeholder(1))
	return s.one(ctx, s.db, t, q, id)
}

// Insert stores a new row. A non-empty string "id" in fields is kept,
// otherwise a UUID is assigned. created_at is always set by the store.
func (s *Store) Insert(ctx context.Context, tableName string, fields map[string]any) (Record, error) {
	t, err := table(tableName)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, s.db, t, fields)
}

func (s *Store) insert(ctx context.Context, q querier, t Table, fields map[string]any) (Record, error) {
	id := uuid.NewString()
	if v, ok := fields[colID].(string); ok && strings.TrimSpace(v) != "" {
		id = v
	}
	names, values, err := t.bind(fields)
	if err != nil {
		return nil, err
	}

	names = append([]string{colID}, names...)
	values = append([]any{id}, values...)
	names = append(names, colCreatedAt)
	values = append(values, s.now())

	marks := make([]string, len(names))
	for i := range names {
		marks[i] = s.db.Dialect.Placeholder(i + 1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.Name, strings.Join(names, ", "), strings.Join(marks, ", "), strings.Join(t.selectList(), ", "))
	return s.one(ctx, q, t, stmt, values...)
}

// Update replaces the given fields of one row and returns the row as stored.
func (s *Store) Update(ctx context.Context, tableName, id string, fields map[string]any) (Record, error) {
	t, err := table(tableName)
	if err != nil {
		return nil, err
	}
	names, values, err := t.bind(fields)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return s.Get(ctx, tableName, id)
	}

	sets := make([]string, len(names))
	for i, n := range names {
		sets[i] = n + " = " + s.db.Dialect.Placeholder(i+1)
	}
	values = append(values, id)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s RETURNING %s",
		t.Name, strings.Join(sets, ", "), colID, s.db.Dialect.Placeholder(len(values)), strings.Join(t.selectList(), ", "))
	return s.one(ctx, s.db, t, stmt, values...)
}

// Delete removes one row and returns it.
func (s *Store) Delete(ctx context.Context, tableName, id string) (Record, error) {
	t, err := table(tableName)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s RETURNING %s",
		t.Name, colID, s.db.Dialect.Placeholder(1), strings.Join(t.selectList(), ", "))
	return s.one(ctx, s.db, t, stmt, id)
}

// InsertBatch inserts all rows in one transaction. Nothing is committed if
// any row fails.
func (s *Store) InsertBatch(ctx context.Context, tableName string, rows []map[string]any) (int, error) {
	_, n, err := s.batch(ctx, tableName, rows, false)
	return n, err
}

// ReplaceAll empties the table and inserts rows in the same transaction, so
// a failed insert leaves the previous contents in place.
func (s *Store) ReplaceAll(ctx context.Context, tableName string, rows []map[string]any) (removed int64, inserted int, err error) {
	return s.batch(ctx, tableName, rows, true)
}

func (s *Store) batch(ctx context.Context, tableName string, rows []map[string]any, truncate bool) (int64, int, error) {
	t, err := table(tableName)
	if err != nil {
		return 0, 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var removed int64
	if truncate {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+t.Name)
		if err != nil {
			return 0, 0, fmt.Errorf("truncate %s: %w", t.Name, err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return 0, 0, fmt.Errorf("truncate %s: %w", t.Name, err)
		}
	}
	for i, fields := range rows {
		if _, err := s.insert(ctx, tx, t, fields); err != nil {
			return 0, 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return removed, len(rows), nil
}

// bind validates fields against the whitelist and returns column names in
// sorted order with their coerced values. id and created_at are skipped.
func (t Table) bind(fields map[string]any) ([]string, []any, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == colID || k == colCreatedAt {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]any, 0, len(keys))
	for _, k := range keys {
		col, ok := t.column(k)
		if !ok {
			return nil, nil, &ColumnError{Table: t.Name, Column: k, Err: ErrUnknownColumn}
		}
		v, ok := toColumn(col.Kind, fields[k])
		if !ok {
			return nil, nil, &ColumnError{Table: t.Name, Column: k, Err: ErrInvalidValue}
		}
		values = append(values, v)
	}
	return keys, values, nil
}

func (s *Store) one(ctx context.Context, q querier, t Table, stmt string, args ...any) (Record, error) {
	recs, err := s.query(ctx, q, t, stmt, args...)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

func (s *Store) query(ctx context.Context, q querier, t Table, stmt string, args ...any) ([]Record, error) {
	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	defer func() { _ = rows.Close() }()

	cols := t.selectList()
	out := []Record{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		rec := make(Record, len(cols))
		for i, c := range cols {
			rec[c] = fromColumn(vals[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	return out, nil
}
