package entity

import (
	"regexp"
	"strings"
)

// Entity is a single normalized sheet row: either a track or an album,
// depending on the Schema it was built with.
type Entity struct {
	// ID is the natural key when the sheet provides one. Otherwise it is a
	// synthetic "slug(curator)-index" value, which is only stable within a
	// single normalization pass: if upstream rows are reordered or removed,
	// index-based ids shift and any state keyed on them attaches to the
	// wrong row after the next reload.
	ID string

	// DisplayName is the primary label (track or release name), never empty.
	DisplayName string
	// SecondaryName is the secondary label (artist), defaulted when the
	// schema declares a secondary column, empty otherwise.
	SecondaryName string

	// Curator is the grouping key. Rows without one are dropped.
	Curator string

	// RawDate keeps the original cell text for display, even when it
	// could not be parsed.
	RawDate string
	// Instant is the parsed date as epoch milliseconds (midnight UTC).
	// Only meaningful when Dated is true; undated entities sort last.
	Instant int64
	Dated   bool

	// NaturalKey is the trimmed natural-key cell (spotify id or URL),
	// empty when absent. Kept separately so webhook payloads can carry it
	// even for entities with synthetic ids.
	NaturalKey string
}

// Schema maps sheet columns to Entity fields and names the hide flag.
// The track and album sheets differ only in this mapping.
type Schema struct {
	ScopeField      string // curator / grouping column, required per row
	DisplayField    string // primary label column
	SecondaryField  string // secondary label column, "" when the sheet has none
	DateField       string
	NaturalKeyField string
	HideField       string // rows with a truthy value here are dropped

	DisplayFallback   string
	SecondaryFallback string
}

// TrackSchema matches the all_tracks sheet layout.
var TrackSchema = Schema{
	ScopeField:        "curator",
	DisplayField:      "track",
	SecondaryField:    "artist",
	DateField:         "date",
	NaturalKeyField:   "spotify_id",
	HideField:         "checked",
	DisplayFallback:   "Untitled Track",
	SecondaryFallback: "Unknown Artist",
}

// AlbumSchema matches the album releases sheet layout.
var AlbumSchema = Schema{
	ScopeField:      "curator",
	DisplayField:    "release_name",
	DateField:       "release_date",
	NaturalKeyField: "spotify_url",
	HideField:       "hide",
	DisplayFallback: "Unknown release",
}

var slugRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify collapses a curator name into a lowercase dash-separated token
// suitable for synthetic ids.
func Slugify(value string) string {
	s := strings.ToLower(value)
	s = slugRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "curator"
	}
	return s
}
