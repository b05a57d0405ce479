package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/place-resolver/internal/domain"
)

// CoordinateResolver resolves optional coordinates to a place label.
type CoordinateResolver interface {
	ResolveCoordinate(ctx context.Context, lat, lon *float64) domain.Resolution
}

// MediaTransformer implements Transformer by attaching a resolved place name
// to each media event.
type MediaTransformer struct {
	resolver CoordinateResolver
	logger   *slog.Logger
}

// NewTransformer creates a MediaTransformer.
func NewTransformer(resolver CoordinateResolver, logger *slog.Logger) *MediaTransformer {
	return &MediaTransformer{
		resolver: resolver,
		logger:   logger,
	}
}

// Transform parses a media event and locates it. Only unparsable events
// fail; geocoding problems produce a fallback label instead.
func (t *MediaTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	event, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	res := t.resolver.ResolveCoordinate(ctx, event.Latitude, event.Longitude)
	located := domain.Locate(event, res)
	t.logger.Debug("media event located",
		"media_id", event.ID,
		"location_source", located.LocationSource,
		"location_name", located.LocationName,
	)

	return domain.SerializeLocatedEvent(located)
}
