package yandex

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/handiism/yandex-music-downloader/internal/model"
)

// flexID decodes identifiers sent either as numbers or as strings.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

type jsonArtist struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

type jsonTrackPosition struct {
	Volume int `json:"volume"`
	Index  int `json:"index"`
}

type jsonLyricsInfo struct {
	HasAvailableTextLyrics bool `json:"hasAvailableTextLyrics"`
}

// jsonAlbum is the album object of album.jsx and the entries of a track's
// "albums" list.
type jsonAlbum struct {
	ID            flexID             `json:"id"`
	Title         string             `json:"title"`
	Version       string             `json:"version"`
	Year          int                `json:"year"`
	ReleaseDate   string             `json:"releaseDate"`
	CoverURI      string             `json:"coverUri"`
	TrackCount    int                `json:"trackCount"`
	Artists       []jsonArtist       `json:"artists"`
	TrackPosition *jsonTrackPosition `json:"trackPosition"`
	Volumes       [][]jsonTrack      `json:"volumes"`
	Error         string             `json:"error"`
}

type jsonTrack struct {
	ID              flexID         `json:"id"`
	Title           string         `json:"title"`
	Version         string         `json:"version"`
	DurationMs      int            `json:"durationMs"`
	Available       *bool          `json:"available"`
	LyricsAvailable bool           `json:"lyricsAvailable"`
	LyricsInfo      jsonLyricsInfo `json:"lyricsInfo"`
	Artists         []jsonArtist   `json:"artists"`
	Albums          []jsonAlbum    `json:"albums"`
}

type jsonLyric struct {
	FullLyrics string `json:"fullLyrics"`
}

// jsonTrackInfo is the track.jsx response.
type jsonTrackInfo struct {
	Track *jsonTrack  `json:"track"`
	Lyric []jsonLyric `json:"lyric"`
	Error string      `json:"error"`
}

// jsonArtistInfo is the artist.jsx response.
type jsonArtistInfo struct {
	Artist jsonArtist  `json:"artist"`
	Albums []jsonAlbum `json:"albums"`
}

type jsonDownloadInfo struct {
	Codec string `json:"codec"`
	Src   string `json:"src"`
}

type jsonStorageInfo struct {
	Host string `json:"host"`
	Path string `json:"path"`
	TS   string `json:"ts"`
	S    string `json:"s"`
}

func toArtists(in []jsonArtist) []model.Artist {
	out := make([]model.Artist, 0, len(in))
	for _, a := range in {
		out = append(out, model.Artist{ID: string(a.ID), Name: a.Name})
	}
	return out
}

// fullTitle appends the version, e.g. "Song (Remix)".
func fullTitle(title, version string) string {
	if version == "" {
		return title
	}
	return title + " (" + version + ")"
}

// parseReleaseDate parses the RFC 3339 release date. A missing or malformed
// date yields nil.
func parseReleaseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// toAlbum converts an album object without its tracks.
func (a *jsonAlbum) toAlbum() *model.Album {
	album := &model.Album{
		ID:          string(a.ID),
		Title:       fullTitle(a.Title, a.Version),
		Year:        a.Year,
		ReleaseDate: parseReleaseDate(a.ReleaseDate),
		Artists:     toArtists(a.Artists),
		Cover:       model.CoverInfo{URI: a.CoverURI},
		TrackCount:  a.TrackCount,
	}
	if album.Year == 0 && album.ReleaseDate != nil {
		album.Year = album.ReleaseDate.Year()
	}
	return album
}

// toAlbumWithTracks converts an album.jsx response. Tracks are numbered by
// their position in the volume lists; every track shares the album pointer.
func (a *jsonAlbum) toAlbumWithTracks() *model.Album {
	album := a.toAlbum()

	count := 0
	for disc, volume := range a.Volumes {
		for i := range volume {
			jt := &volume[i]
			if jt.Available != nil && !*jt.Available {
				continue
			}
			track := jt.toTrack(album)
			track.DiscNumber = disc + 1
			track.Number = i + 1
			album.Tracks = append(album.Tracks, track)
		}
		count += len(volume)
	}
	if album.TrackCount == 0 {
		album.TrackCount = count
	}
	return album
}

// toTrack converts a track object attached to album.
func (t *jsonTrack) toTrack(album *model.Album) *model.Track {
	return &model.Track{
		ID:         string(t.ID),
		Title:      fullTitle(t.Title, t.Version),
		DurationMs: t.DurationMs,
		HasLyrics:  t.LyricsAvailable || t.LyricsInfo.HasAvailableTextLyrics,
		Album:      album,
		Artists:    toArtists(t.Artists),
		Number:     1,
		DiscNumber: 1,
	}
}

// toTrack converts a track.jsx response into a full descriptor. The album
// is taken from the first entry of the track's album list.
func (info *jsonTrackInfo) toTrack() *model.Track {
	var album *model.Album
	var position *jsonTrackPosition
	if len(info.Track.Albums) > 0 {
		first := &info.Track.Albums[0]
		album = first.toAlbum()
		position = first.TrackPosition
	} else {
		album = &model.Album{}
	}

	track := info.Track.toTrack(album)
	if position != nil {
		track.Number = position.Index
		track.DiscNumber = position.Volume
	}
	track.Full = true
	if len(info.Lyric) > 0 {
		track.Lyrics = info.Lyric[0].FullLyrics
	}
	return track
}

func (s jsonStorageInfo) valid() bool {
	return s.Host != "" && len(s.Path) > 1 && s.TS != "" && s.S != ""
}
