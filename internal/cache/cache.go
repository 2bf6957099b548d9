// Package cache provides the SQLite-backed resumable-execution cache keyed
// by invocation fingerprint.
//
// The cache is an append-only map from the canonical fingerprint of a call
// to the identities of the outputs it produced. An action runner consults it
// before executing: a hit means an equivalent call already ran and its
// outputs can be reused instead of re-executing.
package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nereid-bio/nereid/internal/invocation"
)

//go:embed schema.sql
var schemaSQL string

// Cache is a durable fingerprint-to-outputs store. SQLite with WAL mode
// allows concurrent readers while a writer records a completed call.
type Cache struct {
	db *sql.DB
}

// Entry is one cached call: the action that ran and the identity token of
// each output it produced, keyed by output name. Collection outputs carry
// one token per member, keyed "name/key".
type Entry struct {
	Action  string
	Outputs map[string]string
}

// Open creates or opens the cache database at path. Pragmas and schema are
// applied automatically; the function is idempotent.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to cache database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent recording.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put records a completed call. Recording the same fingerprint twice is a
// no-op (the UNIQUE constraint makes replay idempotent); inserted reports
// whether this call was new.
func (c *Cache) Put(ctx context.Context, inv *invocation.Invocation, outputs map[string]string) (inserted bool, err error) {
	encoded, err := json.Marshal(outputs)
	if err != nil {
		return false, fmt.Errorf("encode outputs: %w", err)
	}

	res, err := c.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO invocations (fingerprint, action, outputs) VALUES (?, ?, ?)`,
		inv.Fingerprint(), inv.Action(), string(encoded))
	if err != nil {
		return false, fmt.Errorf("record invocation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get looks up a prior equivalent call. Returns (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, inv *invocation.Invocation) (*Entry, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT action, outputs FROM invocations WHERE fingerprint = ?`,
		inv.Fingerprint())

	var entry Entry
	var encoded string
	if err := row.Scan(&entry.Action, &encoded); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("read invocation: %w", err)
	}
	if err := json.Unmarshal([]byte(encoded), &entry.Outputs); err != nil {
		return nil, fmt.Errorf("decode outputs: %w", err)
	}
	return &entry, nil
}

// List returns every cached fingerprint with its action, in insertion order.
func (c *Cache) List(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT fingerprint, action FROM invocations ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list invocations: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var fp, action string
		if err := rows.Scan(&fp, &action); err != nil {
			return nil, err
		}
		out[fp] = action
	}
	return out, rows.Err()
}
