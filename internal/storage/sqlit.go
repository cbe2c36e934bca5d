package storage

import (
	"database/sql"
	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// Command categories recorded in the usage log.
const (
	CategoryData       = "data"
	CategoryIndicators = "indicators"
	CategoryCharts     = "charts"
	CategoryAnalysis   = "analysis"
	CategoryOther      = "other"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

// UsageStats aggregates one category of commands.
type UsageStats struct {
	Count    int
	Commands map[string]int
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS command_usage(
		chat_id INTEGER, user_id INTEGER, category TEXT, command TEXT, ts INTEGER
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_command_usage_ts ON command_usage(ts)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// RecordUsage logs that a command was issued. Only the command name is kept, never its results.
func (s *Store) RecordUsage(chatID, userID int64, category, command string, ts int64) error {
	_, err := s.db.Exec(`INSERT INTO command_usage(chat_id,user_id,category,command,ts) VALUES(?,?,?,?,?)`,
		chatID, userID, category, command, ts)
	return err
}

// UsageSince aggregates usage per category from ts onward.
func (s *Store) UsageSince(since int64) (map[string]*UsageStats, error) {
	rows, err := s.db.Query(`SELECT category, command, COUNT(*) FROM command_usage WHERE ts>=? GROUP BY category, command`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]*UsageStats{}
	for rows.Next() {
		var (
			category, command string
			n                 int
		)
		if err := rows.Scan(&category, &command, &n); err != nil {
			return nil, err
		}
		st, ok := out[category]
		if !ok {
			st = &UsageStats{Commands: map[string]int{}}
			out[category] = st
		}
		st.Count += n
		st.Commands[command] += n
	}
	return out, rows.Err()
}
