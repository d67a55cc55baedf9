package userstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// countersCollection holds one sequence document per counted collection.
const countersCollection = "counters"

// Counter hands out identifiers from a sequence document {_id: name, seq: n}.
// Each call to NextID is a single atomic find-and-increment, so any number of
// processes sharing the collection get distinct, increasing values.
type Counter struct {
	coll sequenceCollection
	name string
}

var _ store.IDAssigner = (*Counter)(nil)

// sequenceCollection is the part of *mongo.Collection a Counter uses.
type sequenceCollection interface {
	UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
}

// NewCounter returns a counter for the sequence named name stored in coll.
func NewCounter(coll *mongo.Collection, name string) *Counter {
	return newCounter(coll, name)
}

func newCounter(coll sequenceCollection, name string) *Counter {
	return &Counter{coll: coll, name: name}
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// Ensure creates the sequence document with seq 0 if it does not exist.
// An existing sequence is left untouched.
func (c *Counter) Ensure(ctx context.Context) error {
	_, err := c.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: c.name}},
		bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "seq", Value: int64(0)}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure counter %q: %w", c.name, err)
	}
	return nil
}

// NextID increments the sequence and returns the new value. The first value
// handed out is 1.
func (c *Counter) NextID(ctx context.Context) (int64, error) {
	var doc counterDocument
	err := c.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: c.name}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetUpsert(true),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %q: %w", c.name, err)
	}
	return doc.Seq, nil
}
