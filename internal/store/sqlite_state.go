package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KTagupa/app-making-app/internal/model"
)

const dbFileName = "index.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), dbFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a CLI runs beside the TUI.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			sync_ref TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_projects_sync_ref ON projects(sync_ref);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) loadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := &DB{Version: 1, Projects: []model.Project{}}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentProjectID = readMeta("current_project_id")

	rows, err := db.QueryContext(ctx, `SELECT json FROM projects`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var p model.Project
		if err := json.Unmarshal([]byte(js), &p); err != nil {
			return nil, err
		}
		out.Projects = append(out.Projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Never point at a project that no longer exists.
	if out.CurrentProjectID != "" {
		if _, ok := out.FindProject(out.CurrentProjectID); !ok {
			out.CurrentProjectID = ""
		}
	}
	return out, nil
}

// ProjectIDBySyncRef returns the id of the project linked to the given sync
// ref, or "" when no saved project carries it. Served by idx_projects_sync_ref
// without loading any project JSON.
func (s Store) ProjectIDBySyncRef(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var id string
	err = db.QueryRowContext(ctx, `SELECT id FROM projects WHERE sync_ref = ? LIMIT 1`, ref).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s Store) saveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_project_id", strings.TrimSpace(st.CurrentProjectID)); err != nil {
		return err
	}

	// Replace-all strategy: the whole tree is one JSON blob per project, so
	// incremental writes buy nothing at this scale.
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return err
	}

	nowMs := time.Now().UTC().UnixMilli()
	for i := range st.Projects {
		p := &st.Projects[i]
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, name, sync_ref, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			p.ID, p.Name, strings.TrimSpace(p.SyncRef), string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}
