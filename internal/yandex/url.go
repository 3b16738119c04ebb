package yandex

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned by ParseURL for input that is not an album,
// track or artist reference.
var ErrInvalidURL = errors.New("not a Yandex Music album, track or artist URL")

// Target identifies what an input refers to.
//
// Exactly one of the forms is set:
//   - AlbumID only: a whole album
//   - TrackID (and AlbumID when known): a single track
//   - ArtistID only: every album of an artist
type Target struct {
	AlbumID  string
	TrackID  string
	ArtistID string
}

// IsTrack reports whether the target is a single track.
func (t Target) IsTrack() bool {
	return t.TrackID != ""
}

// IsArtist reports whether the target is an artist discography.
func (t Target) IsArtist() bool {
	return t.ArtistID != ""
}

var (
	albumTrackPathRe = regexp.MustCompile(`^/album/(\d+)/track/(\d+)/?$`)
	albumPathRe      = regexp.MustCompile(`^/album/(\d+)/?$`)
	trackPathRe      = regexp.MustCompile(`^/track/(\d+)/?$`)
	artistPathRe     = regexp.MustCompile(`^/artist/(\d+)(/albums)?/?$`)
)

// ParseURL parses an album, track or artist URL such as:
//   - https://music.yandex.ru/album/123
//   - https://music.yandex.ru/album/123/track/456
//   - https://music.yandex.ru/track/456
//   - https://music.yandex.ru/artist/789
//
// Any yandex domain is accepted. Query strings and fragments are ignored.
//
// Returns ErrInvalidURL for anything else.
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return Target{}, ErrInvalidURL
	}
	if !strings.Contains(u.Hostname(), "yandex") {
		return Target{}, ErrInvalidURL
	}

	path := u.Path
	if m := albumTrackPathRe.FindStringSubmatch(path); m != nil {
		return Target{AlbumID: m[1], TrackID: m[2]}, nil
	}
	if m := albumPathRe.FindStringSubmatch(path); m != nil {
		return Target{AlbumID: m[1]}, nil
	}
	if m := trackPathRe.FindStringSubmatch(path); m != nil {
		return Target{TrackID: m[1]}, nil
	}
	if m := artistPathRe.FindStringSubmatch(path); m != nil {
		return Target{ArtistID: m[1]}, nil
	}
	return Target{}, ErrInvalidURL
}

// ParseInputs parses URLs separated by whitespace or commas. Duplicates are
// removed, keeping the first occurrence. Invalid entries are returned
// separately.
func ParseInputs(input string) (targets []Target, invalid []string) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})

	seen := make(map[Target]struct{})
	for _, f := range fields {
		target, err := ParseURL(f)
		if err != nil {
			invalid = append(invalid, f)
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}
	return targets, invalid
}
