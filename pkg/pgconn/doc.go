// Package pgconn establishes the PostgreSQL connection pool backing the
// authoritative task and project stores.
package pgconn
