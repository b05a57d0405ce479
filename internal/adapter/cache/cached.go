package cache

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/place-resolver/internal/domain"
	"github.com/couchcryptid/place-resolver/internal/observability"
)

// Store persists reverse-lookup addresses by key.
type Store interface {
	// Get returns the stored address and whether it was present.
	Get(ctx context.Context, key string) (domain.Address, bool, error)
	Set(ctx context.Context, key string, addr domain.Address) error
}

// CachedGeocoder wraps a Geocoder with a reverse-lookup cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	store   Store
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, store Store, logger *slog.Logger, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ReverseGeocode serves from the store when possible. Coordinates that agree
// to four decimal places share an entry.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Address, error) {
	key := reverseKey(lat, lon)

	addr, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.metrics.GeocodeCache.WithLabelValues("reverse", "error").Inc()
		c.logger.Warn("geocode cache read failed", "key", key, "error", err)
	case ok:
		c.metrics.GeocodeCache.WithLabelValues("reverse", "hit").Inc()
		return addr, nil
	default:
		c.metrics.GeocodeCache.WithLabelValues("reverse", "miss").Inc()
	}

	addr, err = c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return addr, err
	}
	// Only cache addresses that produce a label so "not found" responses can be retried.
	if _, ok := domain.FormatLabel(addr); ok {
		if err := c.store.Set(ctx, key, addr); err != nil {
			c.logger.Warn("geocode cache write failed", "key", key, "error", err)
		}
	}
	return addr, nil
}

// Search is not cached.
func (c *CachedGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	return c.inner.Search(ctx, query, limit)
}

func reverseKey(lat, lon float64) string {
	return "rev:" + domain.Coordinate{Lat: lat, Lon: lon}.CacheKey()
}
