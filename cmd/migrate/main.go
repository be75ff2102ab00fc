package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"afmdash/adapters/sqlstore"
	"afmdash/internal/migration"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL)")
	}

	ctx := context.Background()
	db, err := sqlstore.Open(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	versions, err := migration.AppliedVersions(ctx, db)
	if err != nil {
		log.Fatalf("Failed to read schema versions: %v", err)
	}
	log.Printf("Schema at version %s (%s, applied: %v)", runner.Version(), db.DriverName(), versions)
}
