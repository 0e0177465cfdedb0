// Package journal persists a local log of triage actions so decisions
// survive restarts and can be reviewed later.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const DriverName = "sqlite3"

type Storage struct {
	db *sqlx.DB
}

func NewStorage(path string) (*Storage, error) {
	db, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("journal: opening %s: %w", path, err)
	}

	s := &Storage{db: db}
	if err := s.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: running migrations: %w", err)
	}
	return s, nil
}

func (s Storage) Record(ctx context.Context, action Action, eventID, summary, detail string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO actions (occurred_at, action, event_id, summary, detail)
		VALUES (?, ?, ?, ?, ?)
	`, time.Now().UTC().Format(time.RFC3339), action, eventID, summary, detail)
	return err
}

func (s Storage) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []Entry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, occurred_at, action, event_id, summary, detail
		FROM actions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	return entries, err
}

func (s Storage) Close() error {
	return s.db.Close()
}
