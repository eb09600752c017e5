package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// SQLiteStore keeps every collection in a single documents table with JSON payloads.
// It is meant for local development and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite wraps an open, migrated database.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Add(ctx context.Context, collection string, data any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) Set(ctx context.Context, collection, id string, data any) error {
	payload, err := encodeJSON(data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, payload); err != nil {
		return sqliteErr("set "+collection+"/"+id, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id,
	).Scan(&raw)
	if err != nil {
		return nil, sqliteErr("get "+collection+"/"+id, err)
	}
	return jsonDocument(id, raw), nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sqliteErr("begin update", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id,
	).Scan(&raw)
	if err != nil {
		return sqliteErr("update "+collection+"/"+id, err)
	}

	current := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, id, errors.Join(ErrMalformed, err))
	}
	for k, v := range fields {
		if v == DeleteField {
			delete(current, k)
			continue
		}
		current[k] = v
	}

	payload, err := encodeJSON(current)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?",
		payload, collection, id,
	)
	if err != nil {
		return sqliteErr("update "+collection+"/"+id, err)
	}
	if err := tx.Commit(); err != nil {
		return sqliteErr("commit update", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return sqliteErr("delete "+collection+"/"+id, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteBatch(ctx context.Context, collection string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, collection)
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, sqliteErr("delete batch in "+collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, sqliteErr("delete batch in "+collection, err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]*Document, error) {
	where, args, err := sqliteWhere(q)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT id, data FROM documents WHERE ")
	sb.WriteString(where)

	if q.OrderBy != "" {
		if !fieldPattern.MatchString(q.OrderBy) {
			return nil, fmt.Errorf("invalid order field %q: %w", q.OrderBy, ErrMalformed)
		}
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		expr := jsonExtract(q.OrderBy)
		// Timestamps sort by instant, everything else by its JSON value.
		fmt.Fprintf(&sb, " ORDER BY COALESCE(julianday(%s), %s) %s, rowid %s", expr, expr, dir, dir)
	}

	switch {
	case q.Limit > 0:
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	case q.Offset > 0:
		sb.WriteString(" LIMIT -1")
	}
	if q.Offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, sqliteErr("query "+q.Collection, err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, sqliteErr("scan "+q.Collection, err)
		}
		docs = append(docs, jsonDocument(id, raw))
	}
	if err := rows.Err(); err != nil {
		return nil, sqliteErr("iterate "+q.Collection, err)
	}
	return docs, nil
}

func (s *SQLiteStore) Count(ctx context.Context, q Query) (int, error) {
	where, args, err := sqliteWhere(q)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE "+where, args...).Scan(&n); err != nil {
		return 0, sqliteErr("count "+q.Collection, err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func sqliteWhere(q Query) (string, []any, error) {
	if err := validateQuery(q); err != nil {
		return "", nil, err
	}

	clauses := []string{"collection = ?"}
	args := []any{q.Collection}

	for _, f := range q.Filters {
		if !fieldPattern.MatchString(f.Field) {
			return "", nil, fmt.Errorf("invalid filter field %q: %w", f.Field, ErrMalformed)
		}
		op := string(f.Op)
		if f.Op == OpEqual {
			op = "="
		}
		expr := jsonExtract(f.Field)

		switch v := f.Value.(type) {
		case time.Time:
			clauses = append(clauses, fmt.Sprintf("julianday(%s) %s julianday(?)", expr, op))
			args = append(args, v.UTC().Format(time.RFC3339Nano))
		case bool:
			clauses = append(clauses, fmt.Sprintf("%s %s ?", expr, op))
			if v {
				args = append(args, 1)
			} else {
				args = append(args, 0)
			}
		default:
			clauses = append(clauses, fmt.Sprintf("%s %s ?", expr, op))
			args = append(args, v)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}

func jsonExtract(field string) string {
	return fmt.Sprintf("json_extract(data, '$.%s')", field)
}

func jsonDocument(id, raw string) *Document {
	return NewDocument(id, func(v any) error {
		return json.Unmarshal([]byte(raw), v)
	})
}

func encodeJSON(data any) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", errors.Join(ErrMalformed, err))
	}
	return string(b), nil
}

// sqliteErr maps driver errors onto the package sentinels.
func sqliteErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
		case sqlite3.ErrPerm, sqlite3.ErrReadonly, sqlite3.ErrAuth:
			return fmt.Errorf("%s: %w", op, errors.Join(ErrPermissionDenied, err))
		}
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
