// Package mongodb provides a MongoDB connection component for the store manager.
//
// NewMongoDB builds a client from Config, pings the primary and keeps a handle
// on the configured database. Connection, server-selection and per-operation
// timeouts are all explicit so an unreachable deployment fails within a known
// bound instead of hanging.
//
// Basic usage:
//
//	db, err := mongodb.NewMongoDB(ctx, mongodb.Config{
//		Connection: mongodb.Connection{
//			Host:     "localhost",
//			Port:     "27017",
//			User:     "root",
//			Password: "secret",
//			DbName:   "store",
//		},
//	}, log)
//	if err != nil {
//		return err
//	}
//	defer db.GracefulShutdown()
//
//	users := db.Collection("users")
//
// Driver errors can be mapped onto the store error kinds with TranslateError.
//
// FXModule provides the client to go.uber.org/fx applications and disconnects
// it on stop. A failed connection fails application start.
package mongodb
