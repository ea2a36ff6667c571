// Package repositories contains the SQL-backed implementations of the
// order and vehicle retrieval ports.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/schema"
)

// SQLite-backed implementation of the OrderRepository port. Order and
// vehicle rows come from upstream exports with no fixed column set, so
// each row is stored as one JSON document and surfaced as a raw record
// for the schema mapping layer to interpret.
type SqliteOrderRepository struct{ DB *sql.DB }

func NewSqliteOrderRepository(db *sql.DB) *SqliteOrderRepository {
	return &SqliteOrderRepository{DB: db}
}

// Return all raw order rows stored in the database.
func (s *SqliteOrderRepository) ListOrders(ctx context.Context) ([]schema.Record, error) {
	return s.listRecords(ctx, "orders")
}

// Return all raw vehicle rows stored in the database.
func (s *SqliteOrderRepository) ListVehicles(ctx context.Context) ([]schema.Record, error) {
	return s.listRecords(ctx, "vehicles")
}

func (s *SqliteOrderRepository) listRecords(ctx context.Context, table string) ([]schema.Record, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite order repository: DB is nil")
	}

	var query string
	switch table {
	case "orders":
		query = `SELECT id, payload FROM orders ORDER BY id;`
	case "vehicles":
		query = `SELECT id, payload FROM vehicles ORDER BY id;`
	default:
		return nil, fmt.Errorf("list records: unknown table %q", table)
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: query %s table: %w", table, table, err)
	}
	defer rows.Close()

	records := make([]schema.Record, 0, 64)
	for rows.Next() {
		var id int
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("list %s: scan row: %w", table, err)
		}

		var rec schema.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("list %s: decode row id=%d: %w", table, id, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: row iteration: %w", table, err)
	}

	return records, nil
}

var _ ports.OrderRepository = (*SqliteOrderRepository)(nil)
