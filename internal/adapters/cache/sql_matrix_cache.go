package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/platform/obs"
)

// SQLMatrixCache is the Postgres flavor of the matrix cache, for
// deployments where plans from several instances share one store.
type SQLMatrixCache struct {
	DB *sql.DB
}

func NewSQLMatrixCache(db *sql.DB) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db}
}

func (s *SQLMatrixCache) Get(
	ctx context.Context,
	profile domain.Profile,
	digest string,
) (_ domain.Matrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.Get")(&err)

	if s.DB == nil {
		return domain.Matrix{}, false, errors.New("matrix cache: db is nil")
	}
	if digest == "" {
		return domain.Matrix{}, false, errors.New("get matrix cache: digest must not be empty")
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT payload
	FROM matrix_cache
	WHERE profile = $1 AND digest = $2;
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

func (s *SQLMatrixCache) Put(
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
	INSERT INTO matrix_cache (profile, digest, payload)
	VALUES ($1, $2, $3)
	ON CONFLICT (profile, digest) DO UPDATE
	SET payload = EXCLUDED.payload;
	`, string(profile), digest, payload)
	if err != nil {
		return fmt.Errorf("insert matrix cache profile=%q: %w", profile, err)
	}
	return nil
}
