// Package mongostore keeps catalog entities in MongoDB collections, one
// document per entity with the entity id as _id.
//
// Writes run in a transaction when the deployment supports one (replica set
// or sharded cluster). Every write first checks the ids it touches, so a batch
// with a duplicate or missing id fails before any document changes, with or
// without a transaction.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vbonduro/camstock/internal/domain"
	"github.com/vbonduro/camstock/internal/inventory"
	"github.com/vbonduro/camstock/internal/query"
)

// Connect opens a client for uri and returns the named database. The
// returned func disconnects the client.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(database), client.Disconnect, nil
}

// ErrDuplicate is returned by Insert when a document with one of the ids
// already exists.
var ErrDuplicate = errors.New("duplicate id")

// SupportsTransactions reports whether the deployment behind db can run
// multi-document transactions.
func SupportsTransactions(ctx context.Context, db *mongo.Database) (bool, error) {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, fmt.Errorf("failed to query server topology: %w", err)
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid", nil
}

type settings struct {
	transactions bool
}

type Option func(*settings)

// WithTransactions makes every Insert, Update and Delete run in one
// transaction.
func WithTransactions(enabled bool) Option {
	return func(s *settings) { s.transactions = enabled }
}

// Collection implements inventory.Store for one entity type.
type Collection[T domain.Entity] struct {
	coll         *mongo.Collection
	fields       query.Fields
	transactions bool
}

func NewCollection[T domain.Entity](db *mongo.Database, name string, fields query.Fields, opts ...Option) *Collection[T] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &Collection[T]{coll: db.Collection(name), fields: fields, transactions: s.transactions}
}

func NewCameraCollection(db *mongo.Database, opts ...Option) *Collection[domain.Camera] {
	return NewCollection[domain.Camera](db, "cameras", domain.CameraFields, opts...)
}

func NewFlashCollection(db *mongo.Database, opts ...Option) *Collection[domain.Flash] {
	return NewCollection[domain.Flash](db, "flashes", domain.FlashFields, opts...)
}

func NewLensCollection(db *mongo.Database, opts ...Option) *Collection[domain.Lens] {
	return NewCollection[domain.Lens](db, "lenses", domain.LensFields, opts...)
}

func NewStockCollection(db *mongo.Database, opts ...Option) *Collection[domain.Stock] {
	return NewCollection[domain.Stock](db, "stock", domain.StockFields, opts...)
}

func (c *Collection[T]) key() string {
	return c.fields[0].Name
}

func (c *Collection[T]) Find(ctx context.Context, conditions string) ([]T, error) {
	q, err := query.Parse(conditions, c.fields)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(Sort(q.Sort, c.key()))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cur, err := c.coll.Find(ctx, Filter(q.Where, c.key()), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.coll.Name(), err)
	}
	return out, nil
}

func (c *Collection[T]) Insert(ctx context.Context, items []T) error {
	return c.write(ctx, func(ctx context.Context) error {
		n, err := c.countIDs(ctx, items)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d of %d %s already exist", ErrDuplicate, n, len(items), c.coll.Name())
		}

		docs := make([]any, len(items))
		for i, it := range items {
			docs[i] = it
		}
		if _, err := c.coll.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", c.coll.Name(), err)
		}
		return nil
	})
}

func (c *Collection[T]) Update(ctx context.Context, items []T) error {
	return c.write(ctx, func(ctx context.Context) error {
		if err := c.requireIDs(ctx, items); err != nil {
			return err
		}

		for _, it := range items {
			res, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: it.Key()}}, it)
			if err != nil {
				return fmt.Errorf("failed to update %s %d: %w", c.coll.Name(), it.Key(), err)
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("%w: %s %d", inventory.ErrNotFound, c.coll.Name(), it.Key())
			}
		}
		return nil
	})
}

func (c *Collection[T]) Delete(ctx context.Context, items []T) error {
	return c.write(ctx, func(ctx context.Context) error {
		if err := c.requireIDs(ctx, items); err != nil {
			return err
		}

		res, err := c.coll.DeleteMany(ctx, idFilter(items))
		if err != nil {
			return fmt.Errorf("failed to delete from %s: %w", c.coll.Name(), err)
		}
		if res.DeletedCount < int64(len(items)) {
			return fmt.Errorf("%w: %s deleted %d of %d", inventory.ErrNotFound, c.coll.Name(), res.DeletedCount, len(items))
		}
		return nil
	})
}

// write runs fn, inside a transaction when the collection has them enabled.
func (c *Collection[T]) write(ctx context.Context, fn func(context.Context) error) error {
	if !c.transactions {
		return fn(ctx)
	}

	sess, err := c.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// requireIDs fails with inventory.ErrNotFound unless every item's id is
// stored.
func (c *Collection[T]) requireIDs(ctx context.Context, items []T) error {
	n, err := c.countIDs(ctx, items)
	if err != nil {
		return err
	}
	if n < int64(len(items)) {
		return fmt.Errorf("%w: %s has %d of %d ids", inventory.ErrNotFound, c.coll.Name(), n, len(items))
	}
	return nil
}

func (c *Collection[T]) countIDs(ctx context.Context, items []T) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, idFilter(items))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", c.coll.Name(), err)
	}
	return n, nil
}

func idFilter[T domain.Entity](items []T) bson.D {
	ids := make(bson.A, len(items))
	for i, it := range items {
		ids[i] = it.Key()
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
}
