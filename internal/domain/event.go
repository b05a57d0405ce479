package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// MediaEvent is a media record published by the gallery backend after an
// upload or a metadata edit. Coordinates come from EXIF GPS tags or from a
// user edit and are often absent.
type MediaEvent struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type,omitempty"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	EventType  *string   `json:"event_type,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Coordinate returns the event's coordinate, NaN where a value is absent.
func (e MediaEvent) Coordinate() Coordinate {
	return NewCoordinate(e.Latitude, e.Longitude)
}

// Location sources recorded on enriched events.
const (
	LocationSourceResolved = "resolved"
	LocationSourceFallback = "fallback"
	LocationSourceMissing  = "missing"
)

// LocatedMediaEvent is a MediaEvent carrying its resolved place name.
type LocatedMediaEvent struct {
	MediaEvent

	LocationName   string    `json:"location_name,omitempty"`
	LocationSource string    `json:"location_source"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
