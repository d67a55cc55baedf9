package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Logger is the logging contract used by this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// MongoDB wraps a connected mongo.Client and the configured database.
// It owns the client for its lifetime and releases it in GracefulShutdown.
type MongoDB struct {
	Client *mongo.Client
	cfg    Config
	db     *mongo.Database
	logger Logger
	mu     sync.RWMutex

	closeOnce sync.Once
	closeErr  error
}

// NewMongoDB connects to MongoDB and pings the primary. Unlike the relational
// component there is no degraded mode: any failure is returned and no
// resources are kept.
func NewMongoDB(ctx context.Context, cfg Config, log Logger) (*MongoDB, error) {
	cfg = cfg.withDefaults()

	clientOpts := options.Client().
		ApplyURI(buildURI(cfg.Connection)).
		SetConnectTimeout(cfg.ConnectionDetails.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectionDetails.ServerSelectionTimeout).
		SetMaxPoolSize(cfg.ConnectionDetails.MaxPoolSize)
	if cfg.ConnectionDetails.OperationTimeout > 0 {
		clientOpts.SetTimeout(cfg.ConnectionDetails.OperationTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectionDetails.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB ping failed for %s: %w", redactedURI(cfg.Connection), err)
	}

	if log != nil {
		log.Info("Successfully connected to MongoDB", nil, map[string]interface{}{
			"uri":      redactedURI(cfg.Connection),
			"database": cfg.Connection.DbName,
		})
	}

	return &MongoDB{
		Client: client,
		cfg:    cfg,
		db:     client.Database(cfg.Connection.DbName),
		logger: log,
	}, nil
}

// Collection returns a handle on the named collection of the configured database.
// It returns nil once the client has been shut down.
func (m *MongoDB) Collection(name string) *mongo.Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.db == nil {
		return nil
	}
	return m.db.Collection(name)
}

// GracefulShutdown disconnects the client. It is safe to call more than once;
// later calls return the result of the first.
func (m *MongoDB) GracefulShutdown() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.Client == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		m.closeErr = m.Client.Disconnect(ctx)
		m.Client = nil
		m.db = nil

		if m.logger != nil {
			m.logger.Info("MongoDB connection closed", m.closeErr, nil)
		}
	})
	return m.closeErr
}
