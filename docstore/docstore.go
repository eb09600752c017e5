// Package docstore is a small document-database abstraction over Firestore,
// MongoDB and a local SQLite table. Collections are created implicitly by the
// first write; callers never provision them.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrUnavailable      = errors.New("document store unavailable")
	ErrPermissionDenied = errors.New("document store permission denied")
	ErrMalformed        = errors.New("malformed document")
)

// Op is a comparison operator. The values match Firestore's operator strings.
type Op string

const (
	OpEqual          Op = "=="
	OpLess           Op = "<"
	OpLessOrEqual    Op = "<="
	OpGreater        Op = ">"
	OpGreaterOrEqual Op = ">="
)

// Filter is a single field predicate.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Where builds a Filter.
func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Query describes a filtered, ordered read of one collection. All filters are ANDed.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
}

type deleteField struct{}

// DeleteField, used as a value in Update, removes the field from the document.
var DeleteField any = deleteField{}

// Document is a stored document. Its payload is decoded lazily with DataTo.
type Document struct {
	ID     string
	decode func(v any) error
}

// NewDocument creates a Document backed by the given decoder.
func NewDocument(id string, decode func(v any) error) *Document {
	return &Document{ID: id, decode: decode}
}

// DataTo decodes the document payload into v, which must be a pointer.
func (d *Document) DataTo(v any) error {
	if d.decode == nil {
		return fmt.Errorf("document %s has no payload: %w", d.ID, ErrMalformed)
	}
	if err := d.decode(v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", d.ID, errors.Join(ErrMalformed, err))
	}
	return nil
}

// Store is the document-store handle shared by every repository and the audit logger.
type Store interface {
	// Add appends a document with a generated ID.
	Add(ctx context.Context, collection string, data any) (string, error)
	// Set creates or replaces the document with the given ID.
	Set(ctx context.Context, collection, id string, data any) error
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Update merges top-level fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// DeleteBatch removes the given documents and reports how many were removed.
	DeleteBatch(ctx context.Context, collection string, ids []string) (int, error)
	Query(ctx context.Context, q Query) ([]*Document, error)
	Count(ctx context.Context, q Query) (int, error)
	Close() error
}

// SubCollection joins a parent document path and a child collection name,
// e.g. SubCollection("residence", uid, "household_members").
func SubCollection(parent, id, child string) string {
	return strings.Join([]string{parent, id, child}, "/")
}

func validOp(op Op) bool {
	switch op {
	case OpEqual, OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual:
		return true
	}
	return false
}

func validateQuery(q Query) error {
	if q.Collection == "" {
		return fmt.Errorf("query without collection: %w", ErrMalformed)
	}
	for _, f := range q.Filters {
		if f.Field == "" || !validOp(f.Op) {
			return fmt.Errorf("invalid filter %q %q: %w", f.Field, f.Op, ErrMalformed)
		}
	}
	return nil
}
