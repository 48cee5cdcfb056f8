package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// The audit store is a single SQLite file under the workspace. Its schema has
// one revision so far; PRAGMA user_version tracks what is installed so later
// revisions can upgrade in place.
const schemaVersion = 1

const schema = `
CREATE TABLE decisions (
    id TEXT PRIMARY KEY,
    ts TEXT NOT NULL,
    party_id TEXT NOT NULL,
    task_name TEXT NOT NULL,
    action TEXT NOT NULL,
    request_id TEXT,
    tenant_id TEXT,
    payload_json TEXT NOT NULL
);

CREATE INDEX idx_decisions_party ON decisions(party_id, ts);
`

// StorePath returns the audit database path for a workspace.
func StorePath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".leaseline", "leaseline.db")
}

// Open opens the workspace's audit database, creating the directory and
// schema as needed.
func Open(workspace string) (*sql.DB, error) {
	path := StorePath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", path))
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func ensureSchema(conn *sql.DB) error {
	var installed int
	if err := conn.QueryRow(`PRAGMA user_version`).Scan(&installed); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if installed >= schemaVersion {
		return nil
	}
	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("install audit schema: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return tx.Commit()
}
