package mariadb

import (
	"context"

	"gorm.io/gorm"
)

// Transaction executes fn within a database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
//
// Example usage:
//
//	err := db.Transaction(ctx, func(tx *gorm.DB) error {
//		return tx.Create(&row).Error
//	})
func (m *MariaDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Client == nil {
		return ErrClosed
	}
	return m.Client.WithContext(ctx).Transaction(fn)
}
