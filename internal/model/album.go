package model

import (
	"strconv"
	"strings"
	"time"
)

// Artist is a performer of an album or a track.
type Artist struct {
	ID   string
	Name string
}

// CoverInfo references album cover art stored on the service CDN.
//
// URI is a host-relative template such as
// "avatars.yandex.net/get-music-content/123/abc/%%", where the "%%"
// marker stands for the requested size.
type CoverInfo struct {
	URI string
}

// URL returns the cover URL at the requested square resolution.
//
// The second return value is false when the album has no cover.
//
// Example:
//
//	url, ok := CoverInfo{URI: "avatars.yandex.net/a/%%"}.URL(400)
//	// url = "https://avatars.yandex.net/a/400x400", ok = true
func (c CoverInfo) URL(resolution int) (string, bool) {
	if c.URI == "" {
		return "", false
	}
	size := strconv.Itoa(resolution) + "x" + strconv.Itoa(resolution)
	return "https://" + strings.ReplaceAll(c.URI, "%%", size), true
}

// Album represents a Yandex Music album with its metadata and tracks.
type Album struct {
	// ID is the album identifier used in URLs and in the cover cache.
	ID string

	// Title is the album title.
	Title string

	// Year is the release year. Always known.
	Year int

	// ReleaseDate is the full release date, nil if the service does not
	// provide one.
	ReleaseDate *time.Time

	// Artists lists the album artists. The first one is the album artist.
	Artists []Artist

	// Cover references the album cover art.
	Cover CoverInfo

	// TrackCount is the number of tracks on the album as reported by the
	// service. It may be zero for albums fetched through a single track.
	TrackCount int

	// Tracks holds the album tracks when the album was fetched with them.
	Tracks []*Track
}

// AlbumArtist returns the first album artist, or an empty Artist.
func (a *Album) AlbumArtist() Artist {
	if len(a.Artists) == 0 {
		return Artist{}
	}
	return a.Artists[0]
}

// HasArtwork returns true if the album has cover art available for download.
func (a *Album) HasArtwork() bool {
	return a.Cover.URI != ""
}
