package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"

	_ "modernc.org/sqlite"

	"taskdeck/internal/model"
)

const cacheFile = "cache.sqlite"

// CachedPage is the last successful server response for one (filter, page)
// pair. The dashboard seeds from it before its first fetch resolves; it is
// never treated as authoritative.
type CachedPage struct {
	Tasks []model.Task
	Total int
}

func (s Store) cachePath() string {
	return filepath.Join(s.Dir, cacheFile)
}

func (s Store) openCache(ctx context.Context) (*sql.DB, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.cachePath())
	if err != nil {
		return nil, err
	}
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
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS task_pages (
  filter_key TEXT NOT NULL,
  page       INTEGER NOT NULL,
  "limit"    INTEGER NOT NULL,
  total      INTEGER NOT NULL,
  tasks_json TEXT NOT NULL,
  fetched_at INTEGER NOT NULL,
  PRIMARY KEY (filter_key, page, "limit")
);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SavePage write-through-caches a fetched page.
func (s Store) SavePage(ctx context.Context, filter model.Filter, page, limit int, cached CachedPage) error {
	db, err := s.openCache(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	b, err := json.Marshal(cached.Tasks)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO task_pages (filter_key, page, "limit", total, tasks_json, fetched_at)
VALUES (?, ?, ?, ?, ?, strftime('%s','now'))
ON CONFLICT (filter_key, page, "limit") DO UPDATE SET
  total = excluded.total,
  tasks_json = excluded.tasks_json,
  fetched_at = excluded.fetched_at;`,
		filter.Key(), page, limit, cached.Total, string(b))
	return err
}

// LoadPage returns the cached page, if any.
func (s Store) LoadPage(ctx context.Context, filter model.Filter, page, limit int) (CachedPage, bool, error) {
	db, err := s.openCache(ctx)
	if err != nil {
		return CachedPage{}, false, err
	}
	defer db.Close()

	var total int
	var tasksJSON string
	err = db.QueryRowContext(ctx, `
SELECT total, tasks_json FROM task_pages
WHERE filter_key = ? AND page = ? AND "limit" = ?;`,
		filter.Key(), page, limit).Scan(&total, &tasksJSON)
	if err == sql.ErrNoRows {
		return CachedPage{}, false, nil
	}
	if err != nil {
		return CachedPage{}, false, err
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(tasksJSON), &tasks); err != nil {
		return CachedPage{}, false, err
	}
	return CachedPage{Tasks: tasks, Total: total}, true, nil
}

// ClearCache drops all cached pages. Called on logout so the next user does
// not see someone else's tasks.
func (s Store) ClearCache(ctx context.Context) error {
	db, err := s.openCache(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM task_pages;`)
	return err
}
