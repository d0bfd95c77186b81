// Package postgres implements the credential and token stores on
// PostgreSQL using pgx/v5.
//
// The schema lives in migrations/ and is embedded into the binary; Migrator
// applies it through golang-migrate. Connect opens a pgxpool and retries the
// initial ping so that the server can start while the database is still
// coming up.
package postgres
