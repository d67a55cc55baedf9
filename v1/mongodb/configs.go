package mongodb

import (
	"net"
	"net/url"
	"time"
)

// Default connection settings applied by NewMongoDB when a field is left empty.
const (
	DefaultHost                   = "localhost"
	DefaultPort                   = "27017"
	DefaultDbName                 = "store"
	DefaultConnectTimeout         = 5 * time.Second
	DefaultServerSelectionTimeout = 5 * time.Second
	DefaultMaxPoolSize            = 4
)

// Config is the MongoDB component configuration.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

// Connection holds the parameters that end up in the connection URI.
type Connection struct {
	// URI, when set, is used verbatim and the host/port/credential fields are ignored.
	URI string

	Host     string
	Port     string
	User     string
	Password string
	DbName   string

	// AuthSource is the database credentials are checked against. Empty leaves
	// the driver default (admin).
	AuthSource string
}

// ConnectionDetails holds the client timeouts and pool sizing.
type ConnectionDetails struct {
	// ConnectTimeout bounds establishing a socket.
	ConnectTimeout time.Duration
	// ServerSelectionTimeout bounds waiting for a usable server; it is what
	// makes an unreachable deployment fail fast.
	ServerSelectionTimeout time.Duration
	// OperationTimeout is the client-side timeout applied to every operation.
	// Zero leaves operations bounded only by their context.
	OperationTimeout time.Duration
	MaxPoolSize      uint64
}

// withDefaults returns a copy of c with empty fields set to their defaults.
func (c Config) withDefaults() Config {
	if c.Connection.Host == "" {
		c.Connection.Host = DefaultHost
	}
	if c.Connection.Port == "" {
		c.Connection.Port = DefaultPort
	}
	if c.Connection.DbName == "" {
		c.Connection.DbName = DefaultDbName
	}
	if c.ConnectionDetails.ConnectTimeout <= 0 {
		c.ConnectionDetails.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ConnectionDetails.ServerSelectionTimeout <= 0 {
		c.ConnectionDetails.ServerSelectionTimeout = DefaultServerSelectionTimeout
	}
	if c.ConnectionDetails.MaxPoolSize == 0 {
		c.ConnectionDetails.MaxPoolSize = DefaultMaxPoolSize
	}
	return c
}

// buildURI renders the connection settings as a mongodb:// URI. Credentials
// are only included when both user and password are set.
func buildURI(c Connection) string {
	if c.URI != "" {
		return c.URI
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/",
	}
	if c.User != "" && c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	if c.AuthSource != "" {
		u.RawQuery = url.Values{"authSource": []string{c.AuthSource}}.Encode()
	}
	return u.String()
}

// redactedURI is buildURI with the password masked, for logs.
func redactedURI(c Connection) string {
	if c.URI != "" {
		if u, err := url.Parse(c.URI); err == nil {
			return u.Redacted()
		}
		return "mongodb://<unparsable>"
	}
	u, err := url.Parse(buildURI(c))
	if err != nil {
		return "mongodb://<unparsable>"
	}
	return u.Redacted()
}
