package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const countAlias = "all"

// FirestoreStore is the production backend on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestore connects to the given project. Credentials come from opts or
// from the ambient application-default credentials.
func NewFirestore(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", firestoreErr(err))
	}
	return &FirestoreStore{client: client}, nil
}

// NewFirestoreFromClient wraps an existing client.
func NewFirestoreFromClient(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, firestoreErr(err))
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, firestoreErr(err))
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, firestoreErr(err))
	}
	return snapshotDocument(snap), nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		if v == DeleteField {
			v = firestore.Delete
		}
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, firestoreErr(err))
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, firestoreErr(err))
	}
	return nil
}

// DeleteBatch enqueues every delete on a BulkWriter, which splits them into
// requests under Firestore's per-request write limit.
func (s *FirestoreStore) DeleteBatch(ctx context.Context, collection string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	coll := s.client.Collection(collection)

	jobs := make([]*firestore.BulkWriterJob, 0, len(ids))
	var errs []error
	for _, id := range ids {
		job, err := bw.Delete(coll.Doc(id))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, job)
	}
	bw.End()

	deleted := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}

	if len(errs) > 0 {
		return deleted, fmt.Errorf("delete batch in %s: %w", collection, firestoreErr(errs[0]))
	}
	return deleted, nil
}

func (s *FirestoreStore) Query(ctx context.Context, q Query) ([]*Document, error) {
	fq, err := s.buildQuery(q)
	if err != nil {
		return nil, err
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Offset > 0 {
		fq = fq.Offset(q.Offset)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	snaps, err := fq.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, firestoreErr(err))
	}

	docs := make([]*Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, snapshotDocument(snap))
	}
	return docs, nil
}

func (s *FirestoreStore) Count(ctx context.Context, q Query) (int, error) {
	fq, err := s.buildQuery(q)
	if err != nil {
		return 0, err
	}

	res, err := fq.NewAggregationQuery().WithCount(countAlias).Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.Collection, firestoreErr(err))
	}

	switch v := res[countAlias].(type) {
	case *firestorepb.Value:
		return int(v.GetIntegerValue()), nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("count %s: unexpected result %T: %w", q.Collection, v, ErrMalformed)
	}
}

// Close closes the Firestore client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) buildQuery(q Query) (firestore.Query, error) {
	if err := validateQuery(q); err != nil {
		return firestore.Query{}, err
	}
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, string(f.Op), f.Value)
	}
	return fq, nil
}

func snapshotDocument(snap *firestore.DocumentSnapshot) *Document {
	return NewDocument(snap.Ref.ID, snap.DataTo)
}

// firestoreErr maps gRPC status codes onto the package sentinels.
func firestoreErr(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return errors.Join(ErrNotFound, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.ResourceExhausted:
		return errors.Join(ErrUnavailable, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return errors.Join(ErrPermissionDenied, err)
	case codes.InvalidArgument:
		return errors.Join(ErrMalformed, err)
	}
	return err
}
