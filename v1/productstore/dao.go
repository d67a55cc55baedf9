package productstore

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Aleph-Alpha/storemanager/v1/logger"
	"github.com/Aleph-Alpha/storemanager/v1/mariadb"
	"github.com/Aleph-Alpha/storemanager/v1/model"
	"github.com/Aleph-Alpha/storemanager/v1/observability"
	"github.com/Aleph-Alpha/storemanager/v1/store"
)

const component = "mariadb"

// Logger is the logging contract used by this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Client is the relational connection the DAO runs on. *mariadb.MariaDB
// satisfies it.
type Client interface {
	DB() *gorm.DB
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	GracefulShutdown() error
}

// migrator is implemented by clients that can create tables.
type migrator interface {
	Migrate(ctx context.Context, models ...interface{}) error
}

// ProductDAO persists model.Product records in the products table.
//
// A ProductDAO built by New never fails construction. When the database cannot
// be reached it is disconnected: the failure is logged once and every
// operation returns store.ErrUnavailable.
type ProductDAO struct {
	client       Client
	logger       Logger
	tracker      *observability.Tracker
	assigner     store.IDAssigner
	queryTimeout time.Duration
	autoMigrate  bool

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

var _ store.Store[model.Product] = (*ProductDAO)(nil)

func newDAO(opts []Option) *ProductDAO {
	d := &ProductDAO{
		logger:       logger.NewFromZap(zap.NewNop(), false),
		tracker:      observability.NewTracker(component, tableName, nil),
		assigner:     store.StoreAssigned{},
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// New connects to MariaDB/MySQL with cfg. If the connection fails the error is
// logged and a disconnected DAO is returned.
func New(cfg mariadb.Config, opts ...Option) *ProductDAO {
	d := newDAO(opts)

	client, err := mariadb.NewMariaDB(cfg, d.logger)
	if err != nil {
		d.logger.Error("Product store is disconnected; every operation will fail", err, map[string]interface{}{
			"host":     cfg.Connection.Host,
			"port":     cfg.Connection.Port,
			"database": cfg.Connection.DbName,
		})
		return d
	}

	d.attach(client)
	return d
}

// NewWithClient builds a DAO on an existing connection. A nil client yields a
// disconnected DAO.
func NewWithClient(client Client, opts ...Option) *ProductDAO {
	d := newDAO(opts)
	if client == nil {
		d.logger.Error("Product store is disconnected; every operation will fail", store.ErrUnavailable, nil)
		return d
	}
	d.attach(client)
	return d
}

func (d *ProductDAO) attach(client Client) {
	d.client = client

	if !d.autoMigrate {
		return
	}
	m, ok := client.(migrator)
	if !ok {
		d.logger.Warn("Auto-migrate requested but the client cannot migrate", nil, nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.queryTimeout)
	defer cancel()
	if err := m.Migrate(ctx, &productRow{}); err != nil {
		d.logger.Error("Failed to create products table", err, nil)
		return
	}
	d.logger.Info("Products table is ready", nil, nil)
}

// Connected reports whether the DAO holds an open connection.
func (d *ProductDAO) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.client != nil && !d.closed
}

// SelectAll returns every product ordered by id.
func (d *ProductDAO) SelectAll(ctx context.Context) ([]model.Product, error) {
	const op = "products.select_all"
	ctx, finish := d.start(ctx, "select_all")

	db, err := d.db(op)
	if err != nil {
		finish(err, 0)
		return nil, err
	}

	var rows []productRow
	if err := db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		err = mariadb.TranslateError(op, err)
		finish(err, 0)
		return nil, err
	}

	products := make([]model.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, r.toModel())
	}
	finish(nil, int64(len(products)))
	return products, nil
}

// Insert stores p in a transaction and returns the new id. p.ID is ignored;
// the id comes from the configured IDAssigner or, by default, auto-increment.
func (d *ProductDAO) Insert(ctx context.Context, p model.Product) (int64, error) {
	const op = "products.insert"
	ctx, finish := d.start(ctx, "insert")

	client, err := d.conn(op)
	if err != nil {
		finish(err, 0)
		return 0, err
	}

	id, err := d.assigner.NextID(ctx)
	if err != nil {
		err = store.Wrap(op, err, mariadb.Classify)
		finish(err, 0)
		return 0, err
	}

	d.warnRounding(op, p)
	row := toRow(p)
	row.ID = id
	err = client.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		err = mariadb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	finish(nil, 1)
	return row.ID, nil
}

// Update overwrites name, brand and price of the product with p.ID and
// returns the number of rows changed. A product without id is rejected.
func (d *ProductDAO) Update(ctx context.Context, p model.Product) (int64, error) {
	const op = "products.update"
	ctx, finish := d.start(ctx, "update")

	if !p.Persisted() {
		err := store.NewError(op, store.KindInvalid, nil)
		finish(err, 0)
		return 0, err
	}

	client, err := d.conn(op)
	if err != nil {
		finish(err, 0)
		return 0, err
	}

	d.warnRounding(op, p)
	var affected int64
	err = client.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&productRow{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":  p.Name,
			"brand": p.Brand,
			"price": p.Price,
		})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		err = mariadb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	finish(nil, affected)
	return affected, nil
}

// Delete removes the product with id and returns the number of rows removed.
func (d *ProductDAO) Delete(ctx context.Context, id int64) (int64, error) {
	const op = "products.delete"
	ctx, finish := d.start(ctx, "delete")

	client, err := d.conn(op)
	if err != nil {
		finish(err, 0)
		return 0, err
	}

	var affected int64
	err = client.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&productRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		err = mariadb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	finish(nil, affected)
	return affected, nil
}

// DeleteAll removes every product and returns the number of rows removed.
func (d *ProductDAO) DeleteAll(ctx context.Context) (int64, error) {
	const op = "products.delete_all"
	ctx, finish := d.start(ctx, "delete_all")

	client, err := d.conn(op)
	if err != nil {
		finish(err, 0)
		return 0, err
	}

	var affected int64
	err = client.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&productRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		err = mariadb.TranslateError(op, err)
		finish(err, 0)
		return 0, err
	}

	finish(nil, affected)
	return affected, nil
}

// Close releases the connection. It is a no-op on a disconnected DAO and safe
// to call more than once.
func (d *ProductDAO) Close() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		d.closed = true
		if d.client != nil {
			d.closeErr = d.client.GracefulShutdown()
		}
	})
	return d.closeErr
}

// start bounds ctx by the query timeout and opens the operation span. The
// returned function ends both and logs the outcome at debug level.
// warnRounding logs when the price column is about to round p.Price.
func (d *ProductDAO) warnRounding(op string, p model.Product) {
	if p.ExactPrice() {
		return
	}
	d.logger.Warn("Product price has more than two decimals and will be rounded", nil, map[string]interface{}{
		"operation": op,
		"name":      p.Name,
		"price":     p.Price,
	})
}

func (d *ProductDAO) start(ctx context.Context, operation string) (context.Context, func(err error, rows int64)) {
	ctx, cancel := context.WithTimeout(ctx, d.queryTimeout)
	ctx, done := d.tracker.Start(ctx, operation)
	started := time.Now()

	return ctx, func(err error, rows int64) {
		cancel()
		done(err, rows)
		d.logger.Debug("Product store operation finished", err, map[string]interface{}{
			"operation": operation,
			"rows":      rows,
			"duration":  time.Since(started).String(),
		})
	}
}

// conn returns the client or ErrUnavailable when disconnected or closed.
func (d *ProductDAO) conn(op string) (Client, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.client == nil || d.closed {
		return nil, store.NewError(op, store.KindUnavailable, nil)
	}
	return d.client, nil
}

func (d *ProductDAO) db(op string) (*gorm.DB, error) {
	client, err := d.conn(op)
	if err != nil {
		return nil, err
	}
	db := client.DB()
	if db == nil {
		return nil, store.NewError(op, store.KindUnavailable, mariadb.ErrClosed)
	}
	return db, nil
}
