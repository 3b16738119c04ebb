package model

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// TrackExtension is appended to every rendered track path.
const TrackExtension = ".mp3"

// DefaultPathPattern is the default destination template, relative to the
// download directory.
var DefaultPathPattern = filepath.Join("#album-artist", "#album", "#number - #title")

// unsafeValueChars matches runs of characters not allowed in placeholder
// values: anything but letters, digits, underscore, hyphen, apostrophe,
// parentheses and space.
var unsafeValueChars = regexp.MustCompile(`[^\p{L}\p{N}_\-'() ]+`)

// bannedSegmentChars are stripped from every path segment except the first.
const bannedSegmentChars = `/\*?<>"|:`

// placeholder pairs a template token with the track field it renders.
type placeholder struct {
	token string
	value func(t *Track) string
}

// placeholders is matched in order. Longer tokens sharing a prefix
// (#album-artist, #album-id, #number-padded) come before the shorter ones.
//
// #artist-id renders the artist name, not the id. Existing user patterns
// depend on it.
var placeholders = []placeholder{
	{"#album-artist", func(t *Track) string { return t.Album.AlbumArtist().Name }},
	{"#artist-id", func(t *Track) string { return t.Album.AlbumArtist().Name }},
	{"#album-id", func(t *Track) string { return t.Album.ID }},
	{"#track-id", func(t *Track) string { return t.ID }},
	{"#number-padded", nil},
	{"#number", func(t *Track) string { return strconv.Itoa(t.Number) }},
	{"#artist", func(t *Track) string { return t.Album.AlbumArtist().Name }},
	{"#title", func(t *Track) string { return t.Title }},
	{"#album", func(t *Track) string { return t.Album.Title }},
	{"#year", func(t *Track) string { return strconv.Itoa(t.Album.Year) }},
}

// Placeholders returns the supported template tokens in substitution order.
func Placeholders() []string {
	tokens := make([]string, len(placeholders))
	for i, p := range placeholders {
		tokens[i] = p.token
	}
	return tokens
}

// PreparePath renders the destination path of a track from pattern.
//
// Every placeholder value is cleaned of characters outside
// [\w\-'() ] (replaced with "_") unless unsafe is set. numberPadded is the
// caller-formatted value of #number-padded. The rendered string is then
// sanitized segment by segment (see sanitizePath) and TrackExtension is
// appended.
//
// PreparePath never fails. Names the operating system still rejects, such
// as reserved device names, surface as errors when the file is created.
//
// Example:
//
//	PreparePath("#album-artist/#album/#number - #title", track, false, "03")
//	// "Artist_Name/Album/3 - Song_ Part One_.mp3"
func PreparePath(pattern string, track *Track, unsafe bool, numberPadded string) string {
	pairs := make([]string, 0, 2*len(placeholders))
	for _, p := range placeholders {
		var value string
		if p.value == nil {
			value = numberPadded
		} else {
			value = p.value(track)
		}
		if !unsafe {
			value = unsafeValueChars.ReplaceAllString(value, "_")
		}
		pairs = append(pairs, p.token, value)
	}
	// A Replacer scans the pattern once and tries tokens in table order at
	// each position, so inserted values are never rescanned.
	path := strings.NewReplacer(pairs...).Replace(pattern)
	return sanitizePath(path) + TrackExtension
}

// sanitizePath makes a rendered path acceptable to common filesystems.
//
// The following transformations are applied:
//   - In every segment but the first, the characters /\*?<>"|: are removed
//     and trailing dots are stripped (Windows limitation)
//   - Runs of spaces are collapsed to a single space
//   - Leading and trailing whitespace is removed
//
// The first segment is kept as is (drive letters, relative roots).
func sanitizePath(path string) string {
	segments := strings.Split(path, string(filepath.Separator))
	for i := 1; i < len(segments); i++ {
		seg := strings.Map(func(r rune) rune {
			if strings.ContainsRune(bannedSegmentChars, r) {
				return -1
			}
			return r
		}, segments[i])
		segments[i] = strings.TrimRight(seg, ".")
	}
	path = strings.Join(segments, string(filepath.Separator))

	for strings.Contains(path, "  ") {
		path = strings.ReplaceAll(path, "  ", " ")
	}

	return strings.TrimSpace(path)
}

// PadNumber zero-pads a track number to the width of the album's track
// count, with a minimum width of two digits.
//
// Example:
//
//	PadNumber(3, 12)  // "03"
//	PadNumber(7, 120) // "007"
func PadNumber(number, total int) string {
	width := len(strconv.Itoa(total))
	if width < 2 {
		width = 2
	}
	s := strconv.Itoa(number)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
