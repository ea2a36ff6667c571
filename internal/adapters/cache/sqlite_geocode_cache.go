package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bag-delivery-service/internal/domain"
)

// SQLite backed cache mapping normalized address strings to geographic
// coordinates.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

func (s *SqliteGeocodeCache) Get(
	ctx context.Context,
	address string,
) (domain.Coordinates, bool, error) {
	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return domain.Coordinates{}, false, errors.New("get geocode cache: address must not be empty")
	}

	var lon, lat float64
	err := s.DB.QueryRowContext(ctx, `
	SELECT lon, lat
	FROM geocode_cache
	WHERE address = ?;
	`, address).Scan(&lon, &lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	return domain.Coordinates{Lon: lon, Lat: lat}, true, nil
}

func (s *SqliteGeocodeCache) Put(
	ctx context.Context,
	address string,
	coords domain.Coordinates,
) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO geocode_cache (address, lon, lat)
	VALUES (?, ?, ?);
	`, address, coords.Lon, coords.Lat)
	if err != nil {
		return fmt.Errorf("insert geocode cache addr=%q: %w", address, err)
	}
	return nil
}
