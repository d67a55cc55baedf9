package userstore

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/storemanager/v1/logger"
	"github.com/Aleph-Alpha/storemanager/v1/model"
	"github.com/Aleph-Alpha/storemanager/v1/mongodb"
	"github.com/Aleph-Alpha/storemanager/v1/observability"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

const component = "mongodb"

// Logger is the logging contract used by this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// documentCollection is the part of *mongo.Collection the DAO uses.
type documentCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// UserDAO persists model.User records in the users collection. Identifiers
// come from the users Counter unless another store.IDAssigner is configured.
type UserDAO struct {
	client       *mongodb.MongoDB
	ownsClient   bool
	users        documentCollection
	counter      *Counter
	assigner     store.IDAssigner
	logger       Logger
	tracker      *observability.Tracker
	queryTimeout time.Duration

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

var _ store.Store[model.User] = (*UserDAO)(nil)

func newDAO(opts []Option) *UserDAO {
	d := &UserDAO{
		logger:       logger.NewFromZap(zap.NewNop(), false),
		tracker:      observability.NewTracker(component, usersCollection, nil),
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// New connects to MongoDB with cfg and makes sure the users counter exists.
// Any failure is returned as a *store.Error and no connection is kept. The
// DAO owns the client and disconnects it on Close.
func New(ctx context.Context, cfg mongodb.Config, opts ...Option) (*UserDAO, error) {
	const op = "users.connect"
	d := newDAO(opts)

	client, err := mongodb.NewMongoDB(ctx, cfg, d.logger)
	if err != nil {
		return nil, mongodb.TranslateError(op, err)
	}

	d.client = client
	d.ownsClient = true
	if err := d.attach(ctx, client); err != nil {
		_ = client.GracefulShutdown()
		return nil, err
	}
	return d, nil
}

// NewWithClient builds the DAO on a client connected elsewhere and makes sure
// the users counter exists. The client is left to its creator: Close stops
// the DAO but does not disconnect it.
func NewWithClient(ctx context.Context, client *mongodb.MongoDB, opts ...Option) (*UserDAO, error) {
	const op = "users.connect"
	if client == nil {
		return nil, store.NewError(op, store.KindUnavailable, mongodb.ErrClosed)
	}

	d := newDAO(opts)
	d.client = client
	if err := d.attach(ctx, client); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *UserDAO) attach(ctx context.Context, client *mongodb.MongoDB) error {
	const op = "users.connect"

	users := client.Collection(usersCollection)
	counters := client.Collection(countersCollection)
	if users == nil || counters == nil {
		return store.NewError(op, store.KindUnavailable, mongodb.ErrClosed)
	}
	d.use(users, newCounter(counters, usersCollection))

	ensureCtx, cancel := context.WithTimeout(ctx, d.queryTimeout)
	defer cancel()
	if err := d.counter.Ensure(ensureCtx); err != nil {
		return mongodb.TranslateError(op, err)
	}
	return nil
}

// use points the DAO at users and counter. The counter becomes the id source
// unless WithIDAssigner chose another.
func (d *UserDAO) use(users documentCollection, counter *Counter) {
	d.users = users
	d.counter = counter
	if d.assigner == nil {
		d.assigner = counter
	}
}

// SelectAll returns every user ordered by id.
func (d *UserDAO) SelectAll(ctx context.Context) ([]model.User, error) {
	const op = "users.select_all"
	ctx, finish := d.start(ctx, "select_all")

	users, err := d.collection(op)
	if err != nil {
		finish(err, 0)
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: 1}, {Key: "email", Value: 1}})

	cursor, err := users.Find(ctx, bson.D{}, opts)
	if err != nil {
		err = mongodb.TranslateError(op, err)
		finish(err, 0)
		return nil, err
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		err = mongodb.TranslateError(op, err)
		finish(err, 0)
		return nil, err
	}

	result := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toModel())
	}
	finish(nil, int64(len(result)))
	return result, nil
}

// Insert stores u under the next id and returns it. u.ID is ignored.
func (d *UserDAO) Insert(ctx context.Context, u model.User) (int64, error) {
	const op = "users.insert"
	ctx, finish := d.start(ctx, "insert")

	users, err := d.collection(op)
	if err != nil {
		finish(err, 0)
		return 0, err
	}

	id, err := d.assigner.NextID(ctx)
	if err != nil {
		err = mongodb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	doc := toDocument(u)
	doc.ID = id
	if _, err := users.InsertOne(ctx, doc); err != nil {
		err = mongodb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	finish(nil, 1)
	return id, nil
}

// Update sets name and email of the user with u.ID and returns the number of
// documents modified. Writing identical values modifies nothing.
func (d *UserDAO) Update(ctx context.Context, u model.User) (int64, error) {
	const op = "users.update"
	ctx, finish := d.start(ctx, "update")

	if !u.Persisted() {
		err := store.NewError(op, store.KindInvalid, nil)
		finish(err, 0)
		return 0, err
	}

	users, err := d.collection(op)
	if err != nil {
		finish(err, 0)
		return 0, err
	}

	res, err := users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: u.ID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: u.Name},
			{Key: "email", Value: u.Email},
		}}},
	)
	if err != nil {
		err = mongodb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	finish(nil, res.ModifiedCount)
	return res.ModifiedCount, nil
}

// Delete removes the user with id and returns the number of documents removed.
func (d *UserDAO) Delete(ctx context.Context, id int64) (int64, error) {
	const op = "users.delete"
	ctx, finish := d.start(ctx, "delete")

	users, err := d.collection(op)
	if err != nil {
		finish(err, 0)
		return 0, err
	}

	res, err := users.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		err = mongodb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	finish(nil, res.DeletedCount)
	return res.DeletedCount, nil
}

// DeleteAll removes every user and returns the number of documents removed.
// The counter is not reset.
func (d *UserDAO) DeleteAll(ctx context.Context) (int64, error) {
	const op = "users.delete_all"
	ctx, finish := d.start(ctx, "delete_all")

	users, err := d.collection(op)
	if err != nil {
		finish(err, 0)
		return 0, err
	}

	res, err := users.DeleteMany(ctx, bson.D{})
	if err != nil {
		err = mongodb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	finish(nil, res.DeletedCount)
	return res.DeletedCount, nil
}

// Close stops the DAO and disconnects the client if New created it. It is
// safe to call more than once.
func (d *UserDAO) Close() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		d.closed = true
		if d.client != nil && d.ownsClient {
			d.closeErr = d.client.GracefulShutdown()
		}
	})
	return d.closeErr
}

func (d *UserDAO) start(ctx context.Context, operation string) (context.Context, func(err error, n int64)) {
	ctx, cancel := context.WithTimeout(ctx, d.queryTimeout)
	ctx, done := d.tracker.Start(ctx, operation)
	started := time.Now()

	return ctx, func(err error, n int64) {
		cancel()
		done(err, n)
		d.logger.Debug("User store operation finished", err, map[string]interface{}{
			"operation": operation,
			"documents": n,
			"duration":  time.Since(started).String(),
		})
	}
}

// collection returns the users collection or ErrUnavailable once closed.
func (d *UserDAO) collection(op string) (documentCollection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed || d.users == nil {
		return nil, store.NewError(op, store.KindUnavailable, mongodb.ErrClosed)
	}
	return d.users, nil
}
