package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dialectPostgres = "postgres"

// LockForUpdate adds a FOR UPDATE clause on dialects that support row
// locking. SQLite (tests) serializes writers on its own.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == dialectPostgres {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// AdvisoryXactLock takes a transaction-scoped advisory lock identified by
// (class, key). Released automatically at commit or rollback.
func AdvisoryXactLock(tx *gorm.DB, class int32, key uint) error {
	if tx.Dialector.Name() != dialectPostgres {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", class, int32(key)).Error
}
