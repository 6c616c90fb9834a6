package repository

// Tx is an opaque transaction handle. Storage implementations type-assert it
// (e.g. to pgx.Tx); the in-memory stores ignore it. Pass NoTX to run against
// the store directly.
//
// Each save here is its own commit: aggregates are saved one at a time and
// there is no rollback spanning them, so no use case opens a transaction
// of its own.
type Tx = any

var NoTX Tx
