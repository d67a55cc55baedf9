package mariadb

import (
	"errors"
	"time"
)

// Default connection settings applied by NewMariaDB when a field is left empty.
const (
	DefaultHost            = "localhost"
	DefaultPort            = "3306"
	DefaultCharset         = "utf8mb4"
	DefaultConnectTimeout  = 5 * time.Second
	DefaultMaxOpenConns    = 4
	DefaultMaxIdleConns    = 2
	DefaultConnMaxLifetime = 5 * time.Minute
)

// Config is the MariaDB/MySQL component configuration.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

// Connection holds the parameters that end up in the DSN.
type Connection struct {
	Host     string
	Port     string
	User     string
	Password string
	DbName   string

	// Charset defaults to utf8mb4.
	Charset string

	// TLS is passed through to the driver's tls parameter ("true", "skip-verify", ...).
	TLS string

	// Timeout bounds establishing a connection. Defaults to DefaultConnectTimeout.
	Timeout time.Duration
	// ReadTimeout and WriteTimeout bound socket I/O. Zero means no timeout.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ConnectionDetails configures the database/sql pool.
type ConnectionDetails struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ErrMissingDatabase is returned by Validate when no database name is configured.
var ErrMissingDatabase = errors.New("mariadb: database name is not configured")

// Validate reports configuration that can never produce a working connection.
func (c Config) Validate() error {
	if c.Connection.DbName == "" {
		return ErrMissingDatabase
	}
	return nil
}

// withDefaults returns a copy of c with empty fields set to their defaults.
func (c Config) withDefaults() Config {
	if c.Connection.Host == "" {
		c.Connection.Host = DefaultHost
	}
	if c.Connection.Port == "" {
		c.Connection.Port = DefaultPort
	}
	if c.Connection.Charset == "" {
		c.Connection.Charset = DefaultCharset
	}
	if c.Connection.Timeout <= 0 {
		c.Connection.Timeout = DefaultConnectTimeout
	}
	if c.ConnectionDetails.MaxOpenConns <= 0 {
		c.ConnectionDetails.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.ConnectionDetails.MaxIdleConns <= 0 {
		c.ConnectionDetails.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.ConnectionDetails.ConnMaxLifetime <= 0 {
		c.ConnectionDetails.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return c
}
