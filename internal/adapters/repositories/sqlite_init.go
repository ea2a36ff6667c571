package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Initialize the SQLite database schema: raw order/vehicle rows plus
// the matrix and geocode cache tables.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payload TEXT NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payload TEXT NOT NULL
	);
	`

	createMatrixCacheQuery := `
	CREATE TABLE IF NOT EXISTS matrix_cache (
        profile TEXT NOT NULL,
        digest TEXT NOT NULL,
        payload TEXT NOT NULL,
        PRIMARY KEY (profile, digest)
    );
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
	`

	statements := []string{
		createOrdersQuery,
		createVehiclesQuery,
		createMatrixCacheQuery,
		createGeocodeCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedFile is the on-disk seed format: raw order and vehicle rows as
// column-name to value maps, matching upstream CSV exports.
type SeedFile struct {
	Orders   []map[string]string `json:"orders"`
	Vehicles []map[string]string `json:"vehicles"`
}

// Populate the database with order and vehicle rows from a JSON file.
// Existing rows are cleared first so re-seeding is idempotent.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed orders: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed orders: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"orders", "vehicles"} {
		if _, err := tx.Exec(`DELETE FROM ` + table + `;`); err != nil {
			return fmt.Errorf("seed orders: clear %s table: %w", table, err)
		}
	}

	if err := insertRows(tx, "orders", data.Orders); err != nil {
		return err
	}
	if err := insertRows(tx, "vehicles", data.Vehicles); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return nil
}

func insertRows(tx *sql.Tx, table string, rows []map[string]string) error {
	var query string
	switch table {
	case "orders":
		query = `INSERT INTO orders (payload) VALUES (?);`
	case "vehicles":
		query = `INSERT INTO vehicles (payload) VALUES (?);`
	default:
		return fmt.Errorf("seed orders: unknown table %q", table)
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed orders: prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) == 0 {
			return fmt.Errorf("seed orders: empty %s row at index %d", table, i+1)
		}
		payload, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("seed orders: encode %s row at index %d: %w", table, i+1, err)
		}
		if _, err := stmt.Exec(string(payload)); err != nil {
			return fmt.Errorf("seed orders: insert %s row at index %d: %w", table, i+1, err)
		}
	}

	return nil
}
