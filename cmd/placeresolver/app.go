package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/place-resolver/internal/adapter/cache"
	"github.com/couchcryptid/place-resolver/internal/adapter/nominatim"
	"github.com/couchcryptid/place-resolver/internal/config"
	"github.com/couchcryptid/place-resolver/internal/domain"
	"github.com/couchcryptid/place-resolver/internal/observability"
	"github.com/couchcryptid/place-resolver/internal/resolver"
)

// app holds the lookup stack shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	geocoder domain.Geocoder
	resolver *resolver.Resolver
	redis    *cache.RedisStore
	closers  []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	a := &app{cfg: cfg, logger: logger, metrics: metrics}

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:   cfg.NominatimURL,
		UserAgent: cfg.NominatimUserAgent,
		Language:  cfg.GeocoderLanguage,
		Zoom:      cfg.GeocoderZoom,
		Timeout:   cfg.GeocoderTimeout,
	}, logger, metrics)
	a.geocoder = client

	switch cfg.CacheBackend {
	case config.CacheMemory:
		store := cache.NewMemoryStore(cfg.CacheSize, cfg.CacheTTL, nil)
		a.geocoder = cache.NewCachedGeocoder(client, store, logger, metrics)
		logger.Info("geocode cache enabled", "backend", cfg.CacheBackend, "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	case config.CacheRedis:
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		a.redis = cache.NewRedisStore(rdb, cfg.CacheTTL)
		a.geocoder = cache.NewCachedGeocoder(client, a.redis, logger, metrics)
		logger.Info("geocode cache enabled", "backend", cfg.CacheBackend, "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	default:
		logger.Info("geocode cache disabled")
	}

	a.resolver = resolver.New(a.geocoder, logger, metrics, cfg.GeocoderTimeout)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
