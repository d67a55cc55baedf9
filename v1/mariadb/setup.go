package mariadb

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger is the logging contract used by this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// MariaDB is a thread-safe wrapper around gorm.DB for MariaDB/MySQL.
// It owns one connection pool for its lifetime and releases it in GracefulShutdown.
type MariaDB struct {
	Client *gorm.DB
	cfg    Config
	logger Logger
	mu     *sync.RWMutex

	closeOnce sync.Once
	closeErr  error
}

// NewMariaDB creates a new MariaDB instance with the provided configuration.
// It validates the configuration, opens the pool and pings the server once.
// If any step fails it returns an error and holds no resources.
func NewMariaDB(cfg Config, log Logger) (*MariaDB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	conn, err := connectToMariaDB(cfg, log)
	if err != nil {
		return nil, err
	}

	return &MariaDB{
		Client: conn,
		cfg:    cfg,
		logger: log,
		mu:     &sync.RWMutex{},
	}, nil
}

// NewFromGorm wraps an already opened gorm.DB. Ownership of the pool passes to
// the returned MariaDB, which closes it in GracefulShutdown. It is meant for
// callers that open the database themselves, such as tests on another dialect.
func NewFromGorm(db *gorm.DB, log Logger) *MariaDB {
	return &MariaDB{
		Client: db,
		logger: log,
		mu:     &sync.RWMutex{},
	}
}

// buildDSN renders the connection settings into a go-sql-driver DSN.
func buildDSN(cfg Config) string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.Connection.User
	dsn.Passwd = cfg.Connection.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Connection.Host, cfg.Connection.Port)
	dsn.DBName = cfg.Connection.DbName
	dsn.ParseTime = true
	dsn.Loc = time.Local
	dsn.Timeout = cfg.Connection.Timeout
	dsn.ReadTimeout = cfg.Connection.ReadTimeout
	dsn.WriteTimeout = cfg.Connection.WriteTimeout
	dsn.TLSConfig = cfg.Connection.TLS
	dsn.Params = map[string]string{
		"charset": cfg.Connection.Charset,
	}
	return dsn.FormatDSN()
}

// connectToMariaDB opens the gorm connection, sizes the pool and verifies
// connectivity with a ping bounded by the connect timeout.
func connectToMariaDB(cfg Config, log Logger) (*gorm.DB, error) {
	database, err := gorm.Open(
		gormmysql.Open(buildDSN(cfg)),
		&gorm.Config{
			TranslateError: true,
			Logger:         newGormLogger(log),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MariaDB/MySQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get MariaDB/MySQL database instance: %w", err)
	}

	databaseInstance.SetMaxOpenConns(cfg.ConnectionDetails.MaxOpenConns)
	databaseInstance.SetMaxIdleConns(cfg.ConnectionDetails.MaxIdleConns)
	databaseInstance.SetConnMaxLifetime(cfg.ConnectionDetails.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Connection.Timeout)
	defer cancel()
	if err := databaseInstance.PingContext(ctx); err != nil {
		_ = databaseInstance.Close()
		return nil, fmt.Errorf("MariaDB/MySQL ping failed: %w", err)
	}

	if log != nil {
		log.Info("Successfully connected to MariaDB/MySQL database", nil, map[string]interface{}{
			"host":     cfg.Connection.Host,
			"port":     cfg.Connection.Port,
			"database": cfg.Connection.DbName,
		})
	}

	return database, nil
}

// gormWriter forwards gorm's slow-query and error output to Logger, keeping
// stdout free for the interactive menu.
type gormWriter struct {
	log Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	if w.log == nil {
		return
	}
	w.log.Warn(fmt.Sprintf(format, args...), nil)
}

func newGormLogger(log Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{log: log}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
