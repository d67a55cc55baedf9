package userstore

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// memoryUsers is an in-memory documentCollection that understands the
// filters and updates the DAO sends.
type memoryUsers struct {
	mu       sync.Mutex
	docs     map[int64]userDocument
	findOpts []*options.FindOptions
	err      error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{docs: map[int64]userDocument{}}
}

func idFilter(filter interface{}) int64 {
	return filter.(bson.D)[0].Value.(int64)
}

func (c *memoryUsers) Find(_ context.Context, _ interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.findOpts = append(c.findOpts, opts...)

	ids := make([]int64, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	// unsorted finds answer newest first
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	if ascendingByID(opts) {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	docs := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, c.docs[id])
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func ascendingByID(opts []*options.FindOptions) bool {
	for _, o := range opts {
		if o != nil && reflect.DeepEqual(o.Sort, bson.D{{Key: "_id", Value: 1}}) {
			return true
		}
	}
	return false
}

func (c *memoryUsers) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	doc := document.(userDocument)
	if _, ok := c.docs[doc.ID]; ok {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	}
	c.docs[doc.ID] = doc
	return &mongo.InsertOneResult{InsertedID: doc.ID}, nil
}

func (c *memoryUsers) UpdateOne(_ context.Context, filter, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	existing, ok := c.docs[idFilter(filter)]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}

	changed := existing
	for _, field := range update.(bson.D)[0].Value.(bson.D) {
		switch field.Key {
		case "name":
			changed.Name = field.Value.(string)
		case "email":
			changed.Email = field.Value.(string)
		}
	}
	if changed == existing {
		return &mongo.UpdateResult{MatchedCount: 1}, nil
	}
	c.docs[changed.ID] = changed
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (c *memoryUsers) DeleteOne(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	id := idFilter(filter)
	if _, ok := c.docs[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(c.docs, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (c *memoryUsers) DeleteMany(_ context.Context, _ interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	n := int64(len(c.docs))
	c.docs = map[int64]userDocument{}
	return &mongo.DeleteResult{DeletedCount: n}, nil
}

// memorySequences is an in-memory sequenceCollection. Each call holds the
// lock for its whole read-modify-write, like a single server-side update.
type memorySequences struct {
	mu  sync.Mutex
	seq map[string]int64
}

func newMemorySequences() *memorySequences {
	return &memorySequences{seq: map[string]int64{}}
}

func (c *memorySequences) UpdateOne(_ context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := filter.(bson.D)[0].Value.(string)
	if _, ok := c.seq[name]; ok {
		return &mongo.UpdateResult{MatchedCount: 1}, nil
	}
	if !updateUpserts(opts) {
		return &mongo.UpdateResult{}, nil
	}

	onInsert := update.(bson.D)[0]
	if onInsert.Key != "$setOnInsert" {
		return &mongo.UpdateResult{}, nil
	}
	c.seq[name] = onInsert.Value.(bson.D)[0].Value.(int64)
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: name}, nil
}

func (c *memorySequences) FindOneAndUpdate(_ context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		upsert bool
		after  bool
	)
	for _, o := range opts {
		if o.Upsert != nil {
			upsert = *o.Upsert
		}
		if o.ReturnDocument != nil {
			after = *o.ReturnDocument == options.After
		}
	}

	name := filter.(bson.D)[0].Value.(string)
	before, ok := c.seq[name]
	if !ok && !upsert {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}

	inc := update.(bson.D)[0].Value.(bson.D)[0].Value.(int64)
	c.seq[name] = before + inc

	seq := before
	if after {
		seq = c.seq[name]
	}
	return mongo.NewSingleResultFromDocument(counterDocument{ID: name, Seq: seq}, nil, nil)
}

func updateUpserts(opts []*options.UpdateOptions) bool {
	for _, o := range opts {
		if o != nil && o.Upsert != nil && *o.Upsert {
			return true
		}
	}
	return false
}
