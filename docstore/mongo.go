package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// parentField scopes documents of a sub-collection path to their parent document.
const parentField = "_parent"

var mongoOps = map[Op]string{
	OpLess:           "$lt",
	OpLessOrEqual:    "$lte",
	OpGreater:        "$gt",
	OpGreaterOrEqual: "$gte",
}

// MongoStore is a self-hosted backend on MongoDB. Document IDs are strings
// stored in _id; "parent/{id}/child" paths map to collection "child".
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects and pings the server.
func NewMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", mongoErr(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", mongoErr(err))
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, data any) (string, error) {
	coll, parent := s.collection(collection)
	id := uuid.NewString()

	doc, err := mongoDocument(data, id, parent)
	if err != nil {
		return "", err
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, mongoErr(err))
	}
	return id, nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, data any) error {
	coll, parent := s.collection(collection)

	doc, err := mongoDocument(data, id, parent)
	if err != nil {
		return err
	}
	_, err = coll.ReplaceOne(ctx, scoped(parent, bson.D{{Key: "_id", Value: id}}), doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, mongoErr(err))
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	coll, parent := s.collection(collection)

	raw, err := coll.FindOne(ctx, scoped(parent, bson.D{{Key: "_id", Value: id}})).Raw()
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, mongoErr(err))
	}
	return rawDocument(raw), nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	coll, parent := s.collection(collection)

	set, unset := bson.D{}, bson.D{}
	for k, v := range fields {
		if v == DeleteField {
			unset = append(unset, bson.E{Key: k, Value: ""})
			continue
		}
		set = append(set, bson.E{Key: k, Value: v})
	}

	update := bson.D{}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}

	filter := scoped(parent, bson.D{{Key: "_id", Value: id}})
	if len(update) == 0 {
		if err := coll.FindOne(ctx, filter).Err(); err != nil {
			return fmt.Errorf("update %s/%s: %w", collection, id, mongoErr(err))
		}
		return nil
	}

	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, mongoErr(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	coll, parent := s.collection(collection)
	if _, err := coll.DeleteOne(ctx, scoped(parent, bson.D{{Key: "_id", Value: id}})); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, mongoErr(err))
	}
	return nil
}

func (s *MongoStore) DeleteBatch(ctx context.Context, collection string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	coll, parent := s.collection(collection)

	filter := scoped(parent, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	res, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete batch in %s: %w", collection, mongoErr(err))
	}
	return int(res.DeletedCount), nil
}

func (s *MongoStore) Query(ctx context.Context, q Query) ([]*Document, error) {
	filter, err := mongoFilter(q)
	if err != nil {
		return nil, err
	}
	coll, _ := s.collection(q.Collection)

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "_id", Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, mongoErr(err))
	}

	var raws []bson.Raw
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, mongoErr(err))
	}

	docs := make([]*Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, rawDocument(raw))
	}
	return docs, nil
}

func (s *MongoStore) Count(ctx context.Context, q Query) (int, error) {
	filter, err := mongoFilter(q)
	if err != nil {
		return 0, err
	}
	coll, _ := s.collection(q.Collection)

	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.Collection, mongoErr(err))
	}
	return int(n), nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *MongoStore) collection(path string) (*mongo.Collection, string) {
	name, parent := splitCollectionPath(path)
	return s.db.Collection(name), parent
}

func splitCollectionPath(path string) (name, parent string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return path, ""
	}
	return path[i+1:], path[:i]
}

func scoped(parent string, filter bson.D) bson.D {
	if parent == "" {
		return filter
	}
	return append(filter, bson.E{Key: parentField, Value: parent})
}

// mongoFilter translates the query predicates into a $and filter.
func mongoFilter(q Query) (bson.D, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	_, parent := splitCollectionPath(q.Collection)

	clauses := bson.A{}
	for _, f := range q.Filters {
		if f.Op == OpEqual {
			clauses = append(clauses, bson.D{{Key: f.Field, Value: f.Value}})
			continue
		}
		clauses = append(clauses, bson.D{{Key: f.Field, Value: bson.D{{Key: mongoOps[f.Op], Value: f.Value}}}})
	}

	filter := bson.D{}
	if len(clauses) > 0 {
		filter = append(filter, bson.E{Key: "$and", Value: clauses})
	}
	return scoped(parent, filter), nil
}

// mongoDocument re-encodes data with the string _id first and the parent scope attached.
func mongoDocument(data any, id, parent string) (bson.D, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", errors.Join(ErrMalformed, err))
	}
	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", errors.Join(ErrMalformed, err))
	}

	doc := bson.D{{Key: "_id", Value: id}}
	for _, e := range fields {
		if e.Key == "_id" || e.Key == parentField {
			continue
		}
		doc = append(doc, e)
	}
	if parent != "" {
		doc = append(doc, bson.E{Key: parentField, Value: parent})
	}
	return doc, nil
}

// rawDocument decodes lazily. Embedded documents held in interface values
// (audit changes, for one) decode as bson.M so they marshal to JSON objects
// like on the other backends.
func rawDocument(raw bson.Raw) *Document {
	id, _ := raw.Lookup("_id").StringValueOK()
	return NewDocument(id, func(v any) error {
		dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(raw)))
		dec.DefaultDocumentM()
		return dec.Decode(v)
	})
}

// mongoErr maps driver errors onto the package sentinels.
func mongoErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return errors.Join(ErrNotFound, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return errors.Join(ErrUnavailable, err)
	}

	var se mongo.ServerError
	// 13 Unauthorized, 18 AuthenticationFailed
	if errors.As(err, &se) && (se.HasErrorCode(13) || se.HasErrorCode(18)) {
		return errors.Join(ErrPermissionDenied, err)
	}
	return err
}
