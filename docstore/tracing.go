package docstore

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vneid/admin-dashboard/docstore"

type tracedStore struct {
	next   Store
	tracer trace.Tracer
}

// Traced wraps a Store so each call is recorded as a client span.
func Traced(next Store) Store {
	return &tracedStore{next: next, tracer: otel.Tracer(tracerName)}
}

func (t *tracedStore) start(ctx context.Context, op, collection string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "docstore."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.operation", op),
			attribute.String("db.collection", collection),
		),
	)
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *tracedStore) Add(ctx context.Context, collection string, data any) (string, error) {
	ctx, span := t.start(ctx, "add", collection)
	id, err := t.next.Add(ctx, collection, data)
	finish(span, err)
	return id, err
}

func (t *tracedStore) Set(ctx context.Context, collection, id string, data any) error {
	ctx, span := t.start(ctx, "set", collection)
	err := t.next.Set(ctx, collection, id, data)
	finish(span, err)
	return err
}

func (t *tracedStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	ctx, span := t.start(ctx, "get", collection)
	doc, err := t.next.Get(ctx, collection, id)
	finish(span, err)
	return doc, err
}

func (t *tracedStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	ctx, span := t.start(ctx, "update", collection)
	span.SetAttributes(attribute.Int("db.fields", len(fields)))
	err := t.next.Update(ctx, collection, id, fields)
	finish(span, err)
	return err
}

func (t *tracedStore) Delete(ctx context.Context, collection, id string) error {
	ctx, span := t.start(ctx, "delete", collection)
	err := t.next.Delete(ctx, collection, id)
	finish(span, err)
	return err
}

func (t *tracedStore) DeleteBatch(ctx context.Context, collection string, ids []string) (int, error) {
	ctx, span := t.start(ctx, "delete_batch", collection)
	n, err := t.next.DeleteBatch(ctx, collection, ids)
	span.SetAttributes(attribute.Int("db.batch_size", len(ids)), attribute.Int("db.deleted", n))
	finish(span, err)
	return n, err
}

func (t *tracedStore) Query(ctx context.Context, q Query) ([]*Document, error) {
	ctx, span := t.start(ctx, "query", q.Collection)
	span.SetAttributes(attribute.Int("db.filters", len(q.Filters)), attribute.Int("db.limit", q.Limit))
	docs, err := t.next.Query(ctx, q)
	span.SetAttributes(attribute.Int("db.results", len(docs)))
	finish(span, err)
	return docs, err
}

func (t *tracedStore) Count(ctx context.Context, q Query) (int, error) {
	ctx, span := t.start(ctx, "count", q.Collection)
	n, err := t.next.Count(ctx, q)
	finish(span, err)
	return n, err
}

func (t *tracedStore) Close() error {
	return t.next.Close()
}
