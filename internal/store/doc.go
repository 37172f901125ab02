// Package store defines interfaces for data persistence operations.
// The interfaces keep the service layer independent of the concrete
// database; PostgreSQL implementations live in internal/platform/postgres.
package store
