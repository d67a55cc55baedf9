package mariadb

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// MySQL server error numbers that map to a specific store.Kind.
const (
	errDuplicateEntry      = 1062
	errAccessDenied        = 1045
	errDBAccessDenied      = 1044
	errUnknownDatabase     = 1049
	errTooManyConnections  = 1040
	errServerShutdown      = 1053
	errLockWaitTimeout     = 1205
	errDataTooLong         = 1406
	errTruncatedWrongValue = 1292
	errBadNull             = 1048
	errOutOfRange          = 1264
)

// Classify maps a gorm or go-sql-driver error to a store.Kind.
// It satisfies store.Translator.
func Classify(err error) store.Kind {
	if err == nil {
		return store.KindStore
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.KindDuplicate
	case errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrPrimaryKeyRequired),
		errors.Is(err, gorm.ErrMissingWhereClause),
		errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return store.KindInvalid
	case errors.Is(err, ErrClosed),
		errors.Is(err, ErrMissingDatabase),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return store.KindUnavailable
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errDuplicateEntry:
			return store.KindDuplicate
		case errAccessDenied, errDBAccessDenied, errUnknownDatabase,
			errTooManyConnections, errServerShutdown, errLockWaitTimeout:
			return store.KindUnavailable
		case errDataTooLong, errTruncatedWrongValue, errBadNull, errOutOfRange:
			return store.KindInvalid
		}
		return store.KindStore
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return store.KindUnavailable
	}

	return store.KindStore
}

// TranslateError wraps err as a *store.Error for op, classified by Classify.
// It returns nil for a nil err.
func TranslateError(op string, err error) error {
	return store.Wrap(op, err, Classify)
}
