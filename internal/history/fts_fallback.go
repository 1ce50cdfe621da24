//go:build !sqlite_fts5

package history

import (
	"database/sql"
	"fmt"

	"github.com/starford/lineview/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on the runs table.
	return nil
}

func ftsInsert(_ *sql.Tx, _, _ string, _ []string) error {
	return nil
}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`SELECT `+runColumns+` FROM runs
		WHERE text LIKE ? OR args LIKE ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("history: search: %w", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}
