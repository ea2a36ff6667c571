package services

import (
	"context"
	"errors"
	"testing"

	"bag-delivery-service/internal/adapters/geocode"
	"bag-delivery-service/internal/domain"
)

func TestGeocodeMissingResolvesFlaggedStops(t *testing.T) {
	mock := &geocode.MockGeocoder{
		Coords: map[string]domain.Coordinates{
			"Dam 1, Amsterdam": {Lon: 4.893, Lat: 52.373},
		},
	}
	stops := []domain.Stop{
		{StopID: "S1", Coords: &domain.Coordinates{Lon: 4.9, Lat: 52.37}},
		{StopID: "S2", Address: "Dam 1, Amsterdam", NeedsGeocoding: true},
	}

	if err := GeocodeMissing(context.Background(), mock, stops); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected only the flagged stop geocoded, got %v", mock.Calls)
	}
	if stops[1].NeedsGeocoding {
		t.Fatal("expected geocoding flag cleared")
	}
	if stops[1].Coords == nil || stops[1].Coords.Lat != 52.373 {
		t.Fatalf("expected resolved coordinates, got %+v", stops[1].Coords)
	}
}

func TestGeocodeMissingRequiresAddress(t *testing.T) {
	mock := &geocode.MockGeocoder{}
	stops := []domain.Stop{{StopID: "S1", NeedsGeocoding: true}}

	err := GeocodeMissing(context.Background(), mock, stops)
	if err == nil {
		t.Fatal("expected error for flagged stop without an address")
	}

	var unroutable *domain.UnroutableLocationError
	if !errors.As(err, &unroutable) || unroutable.StopID != "S1" {
		t.Fatalf("expected unroutable location error for S1, got %v", err)
	}
}

func TestGeocodeMissingRequiresGeocoder(t *testing.T) {
	stops := []domain.Stop{{StopID: "S1", Address: "somewhere", NeedsGeocoding: true}}

	if err := GeocodeMissing(context.Background(), nil, stops); err == nil {
		t.Fatal("expected error when no geocoder is configured")
	}
}

func TestGeocodeMissingLookupFailureIsUnroutable(t *testing.T) {
	mock := &geocode.MockGeocoder{Err: errors.New("no geocode results")}
	stops := []domain.Stop{{StopID: "S1", Address: "somewhere", NeedsGeocoding: true}}

	err := GeocodeMissing(context.Background(), mock, stops)
	if err == nil {
		t.Fatal("expected lookup failure to surface")
	}

	var unroutable *domain.UnroutableLocationError
	if !errors.As(err, &unroutable) || unroutable.StopID != "S1" {
		t.Fatalf("expected unroutable location error for S1, got %v", err)
	}
}
