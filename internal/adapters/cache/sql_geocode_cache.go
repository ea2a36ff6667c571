package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/platform/obs"
)

// SQLGeocodeCache is the Postgres flavor of the geocode cache.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

func (s *SQLGeocodeCache) Get(
	ctx context.Context,
	address string,
) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return domain.Coordinates{}, false, errors.New("get geocode cache: address must not be empty")
	}

	var lon, lat float64
	err = s.DB.QueryRowContext(ctx, `
	SELECT lon, lat
	FROM geocode_cache
	WHERE address = $1;
	`, address).Scan(&lon, &lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	return domain.Coordinates{Lon: lon, Lat: lat}, true, nil
}

func (s *SQLGeocodeCache) Put(
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
	INSERT INTO geocode_cache (address, lon, lat)
	VALUES ($1, $2, $3)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`, address, coords.Lon, coords.Lat)
	if err != nil {
		return fmt.Errorf("insert geocode cache addr=%q: %w", address, err)
	}
	return nil
}
