package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ParseRawEvent deserializes a RawEvent's value into a MediaEvent.
func ParseRawEvent(raw RawEvent) (MediaEvent, error) {
	var event MediaEvent
	if err := json.Unmarshal(raw.Value, &event); err != nil {
		return MediaEvent{}, fmt.Errorf("parse raw event: %w", err)
	}
	if event.ID <= 0 {
		return MediaEvent{}, errors.New("parse raw event: missing media id")
	}
	if event.UploadedAt.IsZero() {
		event.UploadedAt = raw.Timestamp
	}
	return event, nil
}

// Locate attaches a resolution to a media event and stamps processed_at.
func Locate(event MediaEvent, res Resolution) LocatedMediaEvent {
	located := LocatedMediaEvent{
		MediaEvent:  event,
		ProcessedAt: clock.Now().UTC(),
	}

	switch res.Outcome {
	case OutcomeMissing:
		located.LocationSource = LocationSourceMissing
	case OutcomeResolved:
		located.LocationName = res.Label
		located.LocationSource = LocationSourceResolved
	default:
		located.LocationName = res.Label
		located.LocationSource = LocationSourceFallback
	}
	return located
}

// SerializeLocatedEvent marshals an enriched event keyed by media id.
func SerializeLocatedEvent(event LocatedMediaEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize located event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(strconv.FormatInt(event.ID, 10)),
		Value: data,
		Headers: map[string]string{
			"location_source": event.LocationSource,
			"processed_at":    event.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
