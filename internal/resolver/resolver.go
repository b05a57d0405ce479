// Package resolver turns coordinates into display labels. Resolution never
// fails: every error path collapses to the "lat, lon" fallback label.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/place-resolver/internal/domain"
	"github.com/couchcryptid/place-resolver/internal/observability"
)

// DefaultTimeout bounds a single upstream lookup when none is configured.
const DefaultTimeout = 8 * time.Second

// Resolver resolves coordinates to place labels through a Geocoder.
type Resolver struct {
	geocoder domain.Geocoder
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Resolver. A non-positive timeout uses DefaultTimeout.
func New(geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		geocoder: geocoder,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve returns the display label for a coordinate. NaN or infinite input
// skips the upstream call.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) string {
	return r.Lookup(ctx, domain.Coordinate{Lat: lat, Lon: lon}).Label
}

// ResolveCoordinate is Resolve for optional inputs; nil counts as missing.
func (r *Resolver) ResolveCoordinate(ctx context.Context, lat, lon *float64) domain.Resolution {
	return r.Lookup(ctx, domain.NewCoordinate(lat, lon))
}

// Lookup resolves a coordinate and reports how the label was obtained.
func (r *Resolver) Lookup(ctx context.Context, c domain.Coordinate) domain.Resolution {
	start := time.Now()
	res := r.lookup(ctx, c)
	r.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	r.metrics.ResolveTotal.WithLabelValues(string(res.Outcome)).Inc()
	return res
}

func (r *Resolver) lookup(ctx context.Context, c domain.Coordinate) domain.Resolution {
	fallback := domain.Resolution{Coordinate: c, Label: c.FallbackLabel()}

	if c.Missing() {
		fallback.Outcome = domain.OutcomeMissing
		r.logger.Debug("coordinates missing, using fallback label", "lat", c.Lat, "lon", c.Lon)
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addr, err := r.geocoder.ReverseGeocode(ctx, c.Lat, c.Lon)
	if err != nil {
		fallback.Outcome = domain.ClassifyError(err)
		r.logger.Warn("reverse geocode failed",
			"lat", c.Lat,
			"lon", c.Lon,
			"outcome", fallback.Outcome,
			"error", err,
		)
		return fallback
	}

	label, ok := domain.FormatLabel(addr)
	if !ok {
		fallback.Outcome = domain.OutcomeUnresolved
		r.logger.Warn("reverse geocode returned no usable place name",
			"lat", c.Lat,
			"lon", c.Lon,
			"outcome", fallback.Outcome,
		)
		return fallback
	}

	return domain.Resolution{Coordinate: c, Label: label, Outcome: domain.OutcomeResolved}
}
