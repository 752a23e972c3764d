package storage

// Tx is the commit/rollback seam between the service and a concrete
// store. *sql.Tx satisfies it; tests substitute their own.
type Tx interface {
	Commit() error
	Rollback() error
}
