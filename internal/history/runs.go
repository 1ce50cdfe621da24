package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/lineview/internal/apperr"
	"github.com/starford/lineview/internal/models"
)

const runColumns = `id, root, line_index, source, position, text, args, pid, error, started_at`

// Record inserts a run and its search entry within a transaction.
func (db *DB) Record(run models.Run) error {
	argsJSON, err := json.Marshal(run.Args)
	if err != nil {
		return fmt.Errorf("history: encode args: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.Index, run.Source, run.Position, run.Text,
		string(argsJSON), run.PID, run.Error, run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}
	if err := ftsInsert(tx, run.ID, run.Text, run.Args); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns a single run by ID.
func (db *DB) Get(id string) (*models.Run, error) {
	row := db.conn.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history: run %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("history: get run: %w", err)
	}
	return &run, nil
}

// List returns runs newest first, with the total count for pagination.
func (db *DB) List(limit, offset int) ([]models.Run, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("history: count runs: %w", err)
	}

	rows, err := db.conn.Query(`SELECT `+runColumns+` FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	out, err := collectRuns(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (models.Run, error) {
	var (
		run      models.Run
		argsJSON string
	)
	if err := s.Scan(&run.ID, &run.Root, &run.Index, &run.Source, &run.Position, &run.Text,
		&argsJSON, &run.PID, &run.Error, &run.StartedAt); err != nil {
		return models.Run{}, err
	}
	if err := json.Unmarshal([]byte(argsJSON), &run.Args); err != nil {
		return models.Run{}, fmt.Errorf("history: decode args: %w", err)
	}
	return run, nil
}

func collectRuns(rows *sql.Rows) ([]models.Run, error) {
	out := []models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
