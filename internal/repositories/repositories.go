package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence increments the counter row of <table>_sequence and returns
// the new value. The whole read-modify-write runs in one transaction so
// concurrent inserts never observe the same number.
//
// Sequence numbers give projects, chapters and runs a stable human-readable
// order (project #42, run #15) that survives UUID regeneration.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	counter := fmt.Sprintf("%s_sequence", table)

	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", counter)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var next int
	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", counter)).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return next, nil
}
