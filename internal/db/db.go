package db

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/victorydiv/fojournapp-sub001/internal/config"
)

// Open connects to postgres and verifies the connection with a ping.
func Open(cfg *config.Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
