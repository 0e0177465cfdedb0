package journal

func (s Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		occurred_at VARCHAR NOT NULL,
		action VARCHAR NOT NULL,
		event_id VARCHAR NOT NULL DEFAULT "",
		summary VARCHAR NOT NULL DEFAULT "",
		detail VARCHAR NOT NULL DEFAULT ""
	)`,
	`CREATE INDEX IF NOT EXISTS actions_occurred_at ON actions (occurred_at)`,
}
