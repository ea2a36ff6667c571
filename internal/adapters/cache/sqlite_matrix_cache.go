// Package cache provides SQL-backed caches for the expensive external
// lookups (travel matrices, geocoding) in both SQLite and Postgres
// flavors.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bag-delivery-service/internal/domain"
)

// SQLite backed cache for whole travel matrices. A matrix is stored as
// one JSON row keyed by profile and the digest of its coordinate list,
// so any change to the location set misses cleanly.
type SqliteMatrixCache struct {
	DB *sql.DB
}

func NewSqliteMatrixCache(db *sql.DB) *SqliteMatrixCache {
	return &SqliteMatrixCache{DB: db}
}

func (s *SqliteMatrixCache) Get(
	ctx context.Context,
	profile domain.Profile,
	digest string,
) (domain.Matrix, bool, error) {
	if s.DB == nil {
		return domain.Matrix{}, false, errors.New("matrix cache: db is nil")
	}
	if digest == "" {
		return domain.Matrix{}, false, errors.New("get matrix cache: digest must not be empty")
	}

	var payload []byte
	err := s.DB.QueryRowContext(ctx, `
	SELECT payload
	FROM matrix_cache
	WHERE profile = ? AND digest = ?;
	`, string(profile), digest).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Matrix{}, false, nil
	}
	if err != nil {
		return domain.Matrix{}, false, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}

	var m domain.Matrix
	if err := json.Unmarshal(payload, &m); err != nil {
		return domain.Matrix{}, false, fmt.Errorf("get matrix cache: decode payload: %w", err)
	}
	return m, true, nil
}

func (s *SqliteMatrixCache) Put(
	ctx context.Context,
	profile domain.Profile,
	digest string,
	m domain.Matrix,
) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}
	if digest == "" {
		return errors.New("insert matrix cache: digest must not be empty")
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("insert matrix cache: encode payload: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO matrix_cache (profile, digest, payload)
	VALUES (?, ?, ?)
	`, string(profile), digest, payload)
	if err != nil {
		return fmt.Errorf("insert matrix cache profile=%q: %w", profile, err)
	}
	return nil
}
