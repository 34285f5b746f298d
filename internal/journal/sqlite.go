package journal

import (
	"eventsphere-scanner/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteProvider struct {
	SQLProvider
}

func NewSQLiteProvider(cfg *config.Storage) *SQLiteProvider {
	sql := NewSQLProvider("sqlite3", cfg.SQLite.Path)
	if sql == nil {
		return nil
	}
	return &SQLiteProvider{SQLProvider: *sql}
}
