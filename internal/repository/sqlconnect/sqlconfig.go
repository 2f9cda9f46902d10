package sqlconnect

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ConnectDB opens the library database from DATABASE_URL and verifies it
// responds before the server starts taking requests.
//
// Borrow/Return hold a book-row lock for the life of their transaction, so
// the pool keeps a few connections of headroom above the default handler
// concurrency; tune with DB_MAX_OPEN_CONNS / DB_MAX_IDLE_CONNS.
func ConnectDB() (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(envInt("DB_MAX_OPEN_CONNS", 16))
	db.SetMaxIdleConns(envInt("DB_MAX_IDLE_CONNS", 8))
	db.SetConnMaxIdleTime(time.Duration(envInt("DB_CONN_MAX_IDLE_SEC", 300)) * time.Second)
	db.SetConnMaxLifetime(time.Duration(envInt("DB_CONN_MAX_LIFE_SEC", 1800)) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
