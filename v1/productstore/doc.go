// Package productstore is the relational DAO for products.
//
// It implements store.Store[model.Product] over a MariaDB/MySQL connection
// from the mariadb package. Writes run in a transaction that is committed on
// success and rolled back on failure. Identifiers come from the table's
// auto-increment unless another store.IDAssigner is configured.
//
// Construction never fails: if the database is unreachable or misconfigured,
// New logs the cause once and returns a disconnected DAO whose operations all
// return store.ErrUnavailable. Connected reports which state the DAO is in.
//
//	dao := productstore.New(cfg, productstore.WithLogger(log))
//	defer dao.Close()
//
//	id, err := dao.Insert(ctx, model.NewProduct("iPhone 15", "Apple", 999.99))
package productstore
