package userstore

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/storemanager/v1/model"
	"github.com/Aleph-Alpha/storemanager/v1/mongodb"
	"github.com/Aleph-Alpha/storemanager/v1/observability"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

func TestDocumentMapping(t *testing.T) {
	u := model.User{ID: 7, Name: "Ada Lovelace", Email: "ada@example.com"}

	doc := toDocument(u)
	assert.Equal(t, userDocument{ID: 7, Name: "Ada Lovelace", Email: "ada@example.com"}, doc)
	assert.Equal(t, u, doc.toModel())
}

func TestUpdate_WithoutID(t *testing.T) {
	dao := newDAO(nil)

	n, err := dao.Update(context.Background(), model.NewUser("Ada Lovelace", "ada@example.com"))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, store.ErrInvalid)
}

func TestClosedDAO(t *testing.T) {
	var (
		mu  sync.Mutex
		ops []string
	)
	dao := newDAO([]Option{WithObserver(observability.ObserverFunc(func(oc observability.OperationContext) {
		mu.Lock()
		defer mu.Unlock()
		ops = append(ops, oc.Operation)
	}))})

	require.NoError(t, dao.Close())
	require.NoError(t, dao.Close())

	ctx := context.Background()

	users, err := dao.SelectAll(ctx)
	assert.Nil(t, users)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	id, err := dao.Insert(ctx, model.NewUser("Ada Lovelace", "ada@example.com"))
	assert.Zero(t, id)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	n, err := dao.Update(ctx, model.User{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"})
	assert.Zero(t, n)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	n, err = dao.Delete(ctx, 1)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	n, err = dao.DeleteAll(ctx)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"select_all", "insert", "update", "delete", "delete_all"}, ops)
}

func TestNew_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a closed port")
	}

	dao, err := New(context.Background(), mongodb.Config{
		Connection: mongodb.Connection{Host: "127.0.0.1", Port: "1"},
		ConnectionDetails: mongodb.ConnectionDetails{
			ConnectTimeout:         200 * time.Millisecond,
			ServerSelectionTimeout: 500 * time.Millisecond,
		},
	})

	require.Error(t, err)
	assert.Nil(t, dao)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

// newMemoryDAO returns a DAO over in-memory users and counters collections.
func newMemoryDAO(t *testing.T, seqs *memorySequences, opts ...Option) (*UserDAO, *memoryUsers) {
	t.Helper()

	users := newMemoryUsers()
	dao := newDAO(opts)
	dao.use(users, newCounter(seqs, usersCollection))
	require.NoError(t, dao.counter.Ensure(context.Background()))
	t.Cleanup(func() { _ = dao.Close() })
	return dao, users
}

func insertUsers(t *testing.T, dao *UserDAO) {
	t.Helper()

	for i, u := range []model.User{
		model.NewUser("Ada Lovelace", "ada@example.com"),
		model.NewUser("Adele Goldberg", "adele@example.com"),
		model.NewUser("Alan Turing", "alan@example.com"),
	} {
		id, err := dao.Insert(context.Background(), u)
		require.NoError(t, err)
		require.Equal(t, int64(i+1), id)
	}
}

func TestSelectAll_OrderedByID(t *testing.T) {
	dao, users := newMemoryDAO(t, newMemorySequences())
	insertUsers(t, dao)

	got, err := dao.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.User{
		{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"},
		{ID: 2, Name: "Adele Goldberg", Email: "adele@example.com"},
		{ID: 3, Name: "Alan Turing", Email: "alan@example.com"},
	}, got)

	require.Len(t, users.findOpts, 1)
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, users.findOpts[0].Sort)
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: 1}, {Key: "email", Value: 1}}, users.findOpts[0].Projection)
}

func TestSelectAll_Empty(t *testing.T) {
	dao, _ := newMemoryDAO(t, newMemorySequences())

	got, err := dao.SelectAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpdate_ReturnsModifiedCount(t *testing.T) {
	dao, _ := newMemoryDAO(t, newMemorySequences())
	insertUsers(t, dao)
	ctx := context.Background()

	n, err := dao.Update(ctx, model.User{ID: 1, Name: "Ada Lovelace", Email: "ada.lovelace@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = dao.Update(ctx, model.User{ID: 1, Name: "Ada Lovelace", Email: "ada.lovelace@example.com"})
	require.NoError(t, err)
	assert.Zero(t, n, "identical values modify nothing")

	n, err = dao.Update(ctx, model.User{ID: 99, Name: "Nobody", Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := dao.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace@example.com", got[0].Email)
}

func TestDelete_ReturnsDeletedCount(t *testing.T) {
	dao, _ := newMemoryDAO(t, newMemorySequences())
	insertUsers(t, dao)
	ctx := context.Background()

	n, err := dao.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = dao.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteAll_KeepsCounter(t *testing.T) {
	dao, _ := newMemoryDAO(t, newMemorySequences())
	insertUsers(t, dao)
	ctx := context.Background()

	n, err := dao.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = dao.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	id, err := dao.Insert(ctx, model.NewUser("Margaret Hamilton", "margaret@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}

func TestCounter_EnsureKeepsExistingSequence(t *testing.T) {
	seqs := newMemorySequences()
	seqs.seq[usersCollection] = 41
	counter := newCounter(seqs, usersCollection)
	ctx := context.Background()

	require.NoError(t, counter.Ensure(ctx))
	id, err := counter.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestCounter_StartsAtOne(t *testing.T) {
	counter := newCounter(newMemorySequences(), usersCollection)

	id, err := counter.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestInsert_SharedCounterAcrossDAOs(t *testing.T) {
	seqs := newMemorySequences()
	first, _ := newMemoryDAO(t, seqs)
	second, _ := newMemoryDAO(t, seqs)

	const perDAO = 25
	var (
		mu  sync.Mutex
		ids []int64
	)
	g, ctx := errgroup.WithContext(context.Background())
	for _, dao := range []*UserDAO{first, second} {
		for i := 0; i < perDAO; i++ {
			g.Go(func() error {
				id, err := dao.Insert(ctx, model.NewUser("Alan Turing", "alan@example.com"))
				if err != nil {
					return err
				}
				mu.Lock()
				ids = append(ids, id)
				mu.Unlock()
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	require.Len(t, ids, 2*perDAO)
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}
}

func TestDriverErrorsAreClassified(t *testing.T) {
	dao, users := newMemoryDAO(t, newMemorySequences())
	ctx := context.Background()

	users.docs[1] = userDocument{ID: 1, Name: "Charles Babbage", Email: "charles@example.com"}
	_, err := dao.Insert(ctx, model.NewUser("Ada Lovelace", "ada@example.com"))
	assert.ErrorIs(t, err, store.ErrDuplicateKey)

	users.err = context.DeadlineExceeded
	_, err = dao.SelectAll(ctx)
	var storeErr *store.Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "users.select_all", storeErr.Op)
	assert.Equal(t, store.KindUnavailable, storeErr.Kind)
}

func TestNewWithClient_Closed(t *testing.T) {
	dao, err := NewWithClient(context.Background(), nil)
	assert.Nil(t, dao)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	closed := &mongodb.MongoDB{}
	require.NoError(t, closed.GracefulShutdown())
	dao, err = NewWithClient(context.Background(), closed)
	assert.Nil(t, dao)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
