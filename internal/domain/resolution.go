package domain

// Resolution is the outcome of resolving a coordinate to a display label.
// Label is always a usable display string: a place name when Outcome is
// OutcomeResolved and the coordinate fallback label otherwise.
type Resolution struct {
	Coordinate Coordinate
	Label      string
	Outcome    Outcome
}

// Resolved reports whether the label is a place name rather than a fallback.
func (r Resolution) Resolved() bool {
	return r.Outcome == OutcomeResolved
}
