package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// database/sql driver registration
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pvollan/identity-api/internal/config"
)

// pingTimeout bounds the initial connectivity check.
const pingTimeout = 5 * time.Second

// openDatabase opens a PostgreSQL connection pool through the pgx stdlib
// driver and verifies connectivity with a ping.
func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
