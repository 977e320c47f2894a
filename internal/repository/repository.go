package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// pick returns exec when a transaction is supplied and falls back to the pool otherwise.
func pick(db *sqlx.DB, exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return db
}

// expectAffected turns an update or delete that touched no rows into sql.ErrNoRows.
func expectAffected(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
