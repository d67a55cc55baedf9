package mariadb

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrClosed is returned by operations on a MariaDB that has been shut down.
var ErrClosed = errors.New("mariadb: client is closed")

// DB returns the underlying GORM DB client.
// This is for cases where direct access to GORM is needed.
func (m *MariaDB) DB() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Client
}

// Migrate creates or updates the tables of the provided models.
func (m *MariaDB) Migrate(ctx context.Context, models ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Client == nil {
		return ErrClosed
	}
	return m.Client.WithContext(ctx).AutoMigrate(models...)
}

// GracefulShutdown closes the connection pool. It is safe to call more than
// once; later calls return the result of the first.
func (m *MariaDB) GracefulShutdown() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.Client == nil {
			return
		}

		sqlDB, err := m.Client.DB()
		if err != nil {
			m.closeErr = err
			return
		}
		m.closeErr = sqlDB.Close()
		m.Client = nil

		if m.logger != nil {
			m.logger.Info("MariaDB/MySQL connection closed", m.closeErr, nil)
		}
	})
	return m.closeErr
}
