//go:build sqlite_fts5

package history

import (
	"testing"
	"time"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM runs_fts`).Scan(&count); err != nil {
		t.Fatalf("runs_fts table missing: %v", err)
	}
}

func TestFTS5_SearchMatchesArgs(t *testing.T) {
	db := testDB(t)
	run := sampleRun("ssh", time.Now())
	run.Text = "prod-01"
	run.Args = []string{"ssh", "prod-01", "-t", "htop"}
	if err := db.Record(run); err != nil {
		t.Fatalf("Record: %v", err)
	}

	results, err := db.Search("htop", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "ssh" {
		t.Fatalf("results = %v", ids(results))
	}
}
