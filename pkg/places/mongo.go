package places

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/hubmap/pkg/errors"
)

// Mongo reads places from a collection. Documents are returned in ascending
// "order" field order, then by _id, so the hub can be pinned with order 0.
type Mongo struct {
	coll    *mongo.Collection
	client  *mongo.Client
	timeout time.Duration
}

// DialMongo connects to uri and returns a source for db.collection.
// Close disconnects the client.
func DialMongo(ctx context.Context, uri, db, collection string) (*Mongo, error) {
	if uri == "" || db == "" || collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo source needs uri, database and collection")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	m := NewMongo(client.Database(db).Collection(collection))
	m.client = client
	return m, nil
}

// NewMongo wraps an existing collection. Close is a no-op for it.
func NewMongo(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll, timeout: 10 * time.Second}
}

func (m *Mongo) Places(ctx context.Context) ([]Place, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s", m.coll.Name())
	}
	var ps []Place
	if err := cur.All(ctx, &ps); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", m.coll.Name())
	}
	return ps, nil
}

// Insert writes places with their slice index as order.
func (m *Mongo) Insert(ctx context.Context, ps []Place) error {
	docs := make([]any, len(ps))
	for i, p := range ps {
		docs[i] = struct {
			Place `bson:",inline"`
			Order int `bson:"order"`
		}{p, i}
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := m.coll.InsertMany(ctx, docs)
	return err
}

// Close disconnects a client opened by DialMongo.
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
