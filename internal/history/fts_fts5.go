//go:build sqlite_fts5

package history

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/lineview/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS runs_fts USING fts5(
			id UNINDEXED,
			text,
			args,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, id, text string, args []string) error {
	_, err := tx.Exec(`INSERT INTO runs_fts (id, text, args) VALUES (?, ?, ?)`,
		id, text, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("history: insert fts: %w", err)
	}
	return nil
}

// Search performs an FTS5 full-text search over run text and arguments.
func (db *DB) Search(query string, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT r.id, r.root, r.line_index, r.source, r.position, r.text, r.args, r.pid, r.error, r.started_at
		FROM runs_fts f
		JOIN runs r ON r.id = f.id
		WHERE runs_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("history: search: %w", err)
	}
	defer rows.Close()
	return collectRuns(rows)
}
