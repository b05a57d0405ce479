package domain

import (
	"fmt"
	"math"
)

// Coordinate is a WGS-84 latitude/longitude pair. A NaN component means the
// value is missing.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewCoordinate builds a Coordinate from optional values, mapping nil to NaN.
func NewCoordinate(lat, lon *float64) Coordinate {
	c := Coordinate{Lat: math.NaN(), Lon: math.NaN()}
	if lat != nil {
		c.Lat = *lat
	}
	if lon != nil {
		c.Lon = *lon
	}
	return c
}

// Missing reports whether either component is absent (NaN or infinite).
// The zero coordinate (0, 0) is a real point in the Gulf of Guinea and is not missing.
func (c Coordinate) Missing() bool {
	return !isFinite(c.Lat) || !isFinite(c.Lon)
}

// InRange reports whether the coordinate lies within [-90, 90] x [-180, 180].
func (c Coordinate) InRange() bool {
	if c.Missing() {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// FallbackLabel formats the coordinate as "lat, lon" with four decimal places.
func (c Coordinate) FallbackLabel() string {
	return FallbackLabel(c.Lat, c.Lon)
}

// CacheKey identifies the coordinate at four-decimal precision.
func (c Coordinate) CacheKey() string {
	return fmt.Sprintf("%.4f,%.4f", normalizeZero(c.Lat), normalizeZero(c.Lon))
}

// FallbackLabel formats a coordinate pair as "lat, lon" with four decimal places.
func FallbackLabel(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// normalizeZero keeps -0.00001 and 0.00001 on the same cache key; both
// render as "0.0000" but %.4f would print the negative one as "-0.0000".
func normalizeZero(v float64) float64 {
	if math.Round(v*1e4) == 0 {
		return 0
	}
	return v
}
