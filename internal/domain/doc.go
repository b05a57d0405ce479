// Package domain models reverse-geocoded place data for media items.
//
// # Data Source
//
// Place names come from the OpenStreetMap Nominatim service
// (https://nominatim.org/release-docs/develop/api/Reverse/). A reverse lookup
// returns an "address" object whose keys depend on the kind of settlement and
// on local administrative divisions, so any of the fields below may be absent.
//
// # Address Conventions
//
// Locality fields, most specific first:
//
//	city, town, village, municipality, suburb, district, county
//
// A capital region is often its own city ("Madrid" is both city and state),
// and small countries may report the country name as the state. Labels are
// deduplicated by strict string equality, with no case folding or Unicode
// normalization.
//
// Region field: state. Country field: country.
//
// # Labels
//
// A label is "<locality>, <region>, <country>" with empty and duplicate parts
// dropped, for example:
//
//	{city: Madrid, state: Madrid, country: España}  →  "Madrid, España"
//	{state: Bavaria, country: Germany}              →  "Bavaria, Germany"
//	{country: Japan}                                →  "Japan"
//
// When no label can be built the coordinate itself is shown with four
// decimal places (about 11 m of precision), e.g. "40.4168, -3.7038". The same
// precision is used for cache keys so a media list with repeated coordinates
// resolves each location once. See [FormatLabel] and [FallbackLabel].
package domain
