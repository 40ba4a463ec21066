// Package store keeps imported vocabularies in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/typlap/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrTextNotFound is returned when no text has the requested name.
var ErrTextNotFound = errors.New("text not found")

// Store wraps SQLite access for vocabularies.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS texts (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			source_path TEXT NOT NULL,
			imported_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS text_tokens (
			text_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			token TEXT NOT NULL,
			PRIMARY KEY (text_id, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveText stores tokens under name, replacing any previous import.
func (s *Store) SaveText(ctx context.Context, info model.TextInfo, tokens []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM text_tokens WHERE text_id IN (SELECT id FROM texts WHERE name = ?)`, info.Name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM texts WHERE name = ?`, info.Name); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO texts (name, source_path, imported_at) VALUES (?, ?, ?)`,
		info.Name,
		info.SourcePath,
		info.ImportedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO text_tokens (text_id, position, token) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, token := range tokens {
		if _, err = stmt.ExecContext(ctx, id, i, token); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadTokens returns the tokens of a text in import order.
func (s *Store) LoadTokens(ctx context.Context, name string) ([]string, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM texts WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTextNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT token FROM text_tokens WHERE text_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// ListTexts returns imported texts ordered by name.
func (s *Store) ListTexts(ctx context.Context) ([]model.TextInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.name, t.source_path, t.imported_at, COUNT(tt.position)
		FROM texts t
		LEFT JOIN text_tokens tt ON tt.text_id = t.id
		GROUP BY t.id
		ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var texts []model.TextInfo
	for rows.Next() {
		var info model.TextInfo
		var importedAt string
		if err := rows.Scan(&info.Name, &info.SourcePath, &importedAt, &info.Tokens); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, importedAt)
		if err != nil {
			return nil, err
		}
		info.ImportedAt = parsed
		texts = append(texts, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return texts, nil
}
