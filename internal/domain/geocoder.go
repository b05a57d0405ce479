package domain

import "context"

// Place is a forward-search hit.
type Place struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"latitude"`
	Lon         float64 `json:"longitude"`
}

// Geocoder is the upstream geocoding service.
type Geocoder interface {
	// ReverseGeocode returns the address breakdown for a coordinate.
	ReverseGeocode(ctx context.Context, lat, lon float64) (Address, error)

	// Search returns up to limit places matching free text.
	Search(ctx context.Context, query string, limit int) ([]Place, error)
}
