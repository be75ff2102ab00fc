package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to DATABASE_URL: postgres:// and postgresql:// URLs use
// lib/pq, anything else is a sqlite path
func Open(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "postgres"
	}

	db, err := sqlx.ConnectContext(ctx, driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// sqlite does not support concurrent writers
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
