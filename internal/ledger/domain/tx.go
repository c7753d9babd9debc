package domain

// Tx is a storage transaction shared across the expense and goal repositories
// so that an expense mutation and its goal balance update commit or roll back
// as one unit.
type Tx interface {
	Commit() error
	Rollback() error
}
