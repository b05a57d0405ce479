package domain

import "errors"

// Failure modes of a reverse lookup. Adapters wrap these with %w so callers
// can classify an error with errors.Is; the resolver maps every one of them to
// the coordinate fallback label.
var (
	ErrMissingCoordinates = errors.New("missing coordinates")
	ErrTransport          = errors.New("geocoder transport error")
	ErrUpstreamStatus     = errors.New("geocoder returned non-success status")
	ErrPayload            = errors.New("malformed geocoder payload")
	ErrNoAddress          = errors.New("no address for coordinates")
)

// Outcome labels a reverse lookup for logs and metrics.
type Outcome string

const (
	OutcomeResolved   Outcome = "resolved"
	OutcomeMissing    Outcome = "missing"
	OutcomeTransport  Outcome = "transport_error"
	OutcomeUpstream   Outcome = "upstream_error"
	OutcomePayload    Outcome = "payload_error"
	OutcomeUnresolved Outcome = "unresolved"
)

// ClassifyError maps a lookup error onto an Outcome. Unknown errors count as
// transport failures, which is what context deadlines surface as.
func ClassifyError(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, ErrMissingCoordinates):
		return OutcomeMissing
	case errors.Is(err, ErrUpstreamStatus):
		return OutcomeUpstream
	case errors.Is(err, ErrPayload):
		return OutcomePayload
	case errors.Is(err, ErrNoAddress):
		return OutcomeUnresolved
	default:
		return OutcomeTransport
	}
}
