package model

import "strings"

// Track represents a single track within an album.
//
// Track contains metadata for one song including:
//   - Track and disc number for ID3 tagging
//   - Duration for playlist generation
//   - Lyrics availability and, for full descriptors, the lyrics text
//   - Performing artists
//
// The same track may be described by a basic descriptor (from an album
// listing) or by a full one (from a track info request). Only the latter
// carries lyrics; Full tells them apart.
type Track struct {
	// ID is the track identifier.
	ID string

	// Number is the position on the disc (1-indexed).
	Number int

	// DiscNumber is the disc (volume) the track belongs to (1-indexed).
	DiscNumber int

	// Title is the track title.
	Title string

	// DurationMs is the track length in milliseconds.
	DurationMs int

	// HasLyrics reports whether the service has text lyrics for this track.
	HasLyrics bool

	// Full is set on descriptors returned by a full track info request.
	Full bool

	// Lyrics holds the lyrics text of a full descriptor.
	// Empty when none are available.
	Lyrics string

	// Album is a reference to the owning album.
	Album *Album

	// Artists lists the performing artists.
	Artists []Artist
}

// ArtistNames returns the names of the performing artists in order.
func (t *Track) ArtistNames() []string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return names
}

// Duration returns the track length in seconds.
func (t *Track) Duration() float64 {
	return float64(t.DurationMs) / 1000
}

// String returns "Artist1, Artist2 - Title".
func (t *Track) String() string {
	return strings.Join(t.ArtistNames(), ", ") + " - " + t.Title
}
