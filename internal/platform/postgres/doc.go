// Package postgres provides PostgreSQL implementations of the persistence
// interfaces defined in internal/store, including the owner-scoped task
// queries backing list pagination and analytics. It maps database errors
// to the store package's sentinel errors.
package postgres
