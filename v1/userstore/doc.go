// Package userstore is the document DAO for users.
//
// It implements store.Store[model.User] over the mongodb package. Every
// insert draws its id from a Counter document in the counters collection,
// so ids are unique across processes sharing the database and never reused,
// not even after DeleteAll.
//
// Unlike the product store, failures are never hidden: New returns an error
// when MongoDB is unreachable and every operation returns classified
// *store.Error values. FXModule builds the DAO with NewWithClient on the
// client provided by mongodb.FXModule.
package userstore
