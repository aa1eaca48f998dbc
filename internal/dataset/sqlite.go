package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"skillboard/internal/model"

	_ "modernc.org/sqlite"
)

// SQLite datasets keep one JSON blob per row. Row order (seq) is load order.

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS skills (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id INTEGER NOT NULL,
			category TEXT NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id INTEGER NOT NULL,
			skill_id INTEGER NOT NULL,
			done INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_skill ON tasks(skill_id);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// LoadSQLite reads a dataset written by Import. A missing skills or tasks
// table is the SQLite form of a missing sequence.
func LoadSQLite(ctx context.Context, path string) (model.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000;"); err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}

	for _, table := range []string{"skills", "tasks"} {
		ok, err := tableExists(ctx, db, table)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("dataset: inspect %s: %w", path, err)
		}
		if !ok {
			return model.Dataset{}, &FormatError{Field: table, Reason: "is missing"}
		}
	}

	skills, err := readJSONRows[model.Skill](ctx, db, `SELECT json FROM skills ORDER BY seq`)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: read skills: %w", err)
	}
	tasks, err := readJSONRows[model.Task](ctx, db, `SELECT json FROM tasks ORDER BY seq`)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("dataset: read tasks: %w", err)
	}
	return normalize(model.Dataset{Skills: skills, Tasks: tasks}), nil
}

// Import writes ds into a SQLite file, replacing any dataset already there.
func Import(ctx context.Context, ds model.Dataset, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("dataset: missing sqlite path")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("dataset: create %s: %w", dir, err)
		}
	}
	db, err := openSQLite(ctx, path)
	if err != nil {
		return fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer db.Close()

	if err := migrateSQLite(ctx, db); err != nil {
		return fmt.Errorf("dataset: migrate %s: %w", path, err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Replace-all: an import is a full snapshot.
	for _, t := range []string{"skills", "tasks"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}
	for _, sk := range ds.Skills {
		raw, _ := json.Marshal(sk)
		if _, err := tx.ExecContext(ctx, `INSERT INTO skills(id, category, json) VALUES(?, ?, ?)`,
			sk.ID, string(sk.Category), string(raw)); err != nil {
			return err
		}
	}
	for _, t := range ds.Tasks {
		raw, _ := json.Marshal(t)
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(id, skill_id, done, json) VALUES(?, ?, ?, ?)`,
			t.ID, t.SkillID, boolToInt(t.Done), string(raw)); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`,
		"imported_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
