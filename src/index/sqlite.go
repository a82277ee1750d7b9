package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite-backed symbol storage. This is the load/store collaborator feeding
// StaticIndex construction; the in-memory indexes never touch the database.

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    scope TEXT NOT NULL DEFAULT '',
    kind INTEGER NOT NULL DEFAULT 0,
    signature TEXT NOT NULL DEFAULT '',
    params TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL DEFAULT '',
    documentation TEXT NOT NULL DEFAULT '',
    label TEXT NOT NULL DEFAULT '',
    insert_text TEXT NOT NULL DEFAULT '',
    snippet_text TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_scope ON symbols(scope);
`

// paramSep joins parameter labels inside the params column. Parameter text
// never contains newlines, so a newline is an unambiguous separator.
const paramSep = "\n"

// OpenDB opens or creates the symbol database at the given path.
func OpenDB(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func initSchema(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Fresh or pre-versioned database, create everything.
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("setting schema version: %w", err)
		}
		return nil
	}

	if version < schemaVersion {
		if _, err := db.Exec("UPDATE schema_version SET version = ?", schemaVersion); err != nil {
			return fmt.Errorf("updating schema version: %w", err)
		}
	}

	return nil
}

// LoadSymbols reads every stored symbol from the database at dbPath.
// Malformed rows are skipped silently, matching the candidate policy.
func LoadSymbols(ctx context.Context, dbPath string) ([]Symbol, error) {
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, scope, kind, signature, params, detail,
		       documentation, label, insert_text, snippet_text
		FROM symbols
		ORDER BY scope, name`)
	if err != nil {
		return nil, fmt.Errorf("querying symbols: %w", err)
	}
	defer rows.Close()

	var symbols []Symbol
	for rows.Next() {
		var sym Symbol
		var id string
		var kind int
		var params string
		if err := rows.Scan(&id, &sym.Name, &sym.Scope, &kind, &sym.Signature,
			&params, &sym.Detail, &sym.Documentation, &sym.Label,
			&sym.InsertText, &sym.SnippetText); err != nil {
			return nil, fmt.Errorf("scanning symbol row: %w", err)
		}
		if sym.Name == "" {
			continue
		}
		sym.ID = SymbolID(id)
		sym.Kind = SymbolKind(kind)
		if params != "" {
			sym.Params = strings.Split(params, paramSep)
		}
		symbols = append(symbols, sym.withID())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading symbol rows: %w", err)
	}

	return symbols, nil
}

// SaveSymbols replaces the database contents at dbPath with the given
// symbols. Writes happen in one transaction so readers see either the old
// set or the new set.
func SaveSymbols(ctx context.Context, dbPath string, symbols []Symbol) error {
	db, err := OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM symbols"); err != nil {
		return fmt.Errorf("clearing symbols: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO symbols
		(id, name, scope, kind, signature, params, detail,
		 documentation, label, insert_text, snippet_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, sym := range symbols {
		if !sym.Valid() {
			continue
		}
		sym = sym.withID()
		if _, err := stmt.ExecContext(ctx, string(sym.ID), sym.Name, sym.Scope,
			int(sym.Kind), sym.Signature, strings.Join(sym.Params, paramSep),
			sym.Detail, sym.Documentation, sym.Label, sym.InsertText,
			sym.SnippetText); err != nil {
			return fmt.Errorf("inserting symbol %s: %w", sym.QualifiedName(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing symbols: %w", err)
	}
	return nil
}
