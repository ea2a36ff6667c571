package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"bag-delivery-service/internal/platform/db"
)

// dbtool prepares the shared Postgres cache tables for deployments that
// set DATABASE_URL instead of using the local SQLite file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	pg, err := db.OpenPostgres(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	log.Println("Initializing cache schema...")
	if err := initCacheSchema(ctx, pg); err != nil {
		log.Fatal(err)
	}
	log.Println("Schema ready.")
}

func initCacheSchema(ctx context.Context, pg *sql.DB) error {
	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS matrix_cache (
			profile TEXT NOT NULL,
			digest TEXT NOT NULL,
			payload BYTEA NOT NULL,
			PRIMARY KEY (profile, digest)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lon DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL
		);
		`,
	}

	for i, stmt := range statements {
		if _, err := pg.ExecContext(ctx, stmt); err != nil {
			return err
		}
		log.Printf("applied statement #%d", i+1)
	}
	return nil
}
