package yandex

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ymhttp "github.com/handiism/yandex-music-downloader/internal/http"
	"github.com/handiism/yandex-music-downloader/internal/model"
)

const albumJSON = `{
	"id": 5307396,
	"title": "Album",
	"version": "Deluxe",
	"year": 2018,
	"releaseDate": "2018-03-09T00:00:00+03:00",
	"coverUri": "avatars.yandex.net/get-music-content/1/a/%%",
	"trackCount": 3,
	"artists": [{"id": 1, "name": "Band"}, {"id": "2", "name": "Guest"}],
	"volumes": [
		[
			{"id": "101", "title": "One", "durationMs": 180000, "lyricsAvailable": true, "artists": [{"id": 1, "name": "Band"}]},
			{"id": 102, "title": "Two", "durationMs": 200000, "lyricsInfo": {"hasAvailableTextLyrics": true}, "artists": [{"id": 1, "name": "Band"}, {"id": 2, "name": "Guest"}]}
		],
		[
			{"id": "201", "title": "Three", "version": "Live", "durationMs": 1000, "artists": [{"id": 1, "name": "Band"}]}
		]
	]
}`

const trackJSON = `{
	"track": {
		"id": "101",
		"title": "One",
		"durationMs": 180000,
		"lyricsAvailable": true,
		"artists": [{"id": 1, "name": "Band"}],
		"albums": [{
			"id": 5307396,
			"title": "Album",
			"year": 2018,
			"coverUri": "avatars.yandex.net/get-music-content/1/a/%%",
			"artists": [{"id": 1, "name": "Band"}],
			"trackPosition": {"volume": 2, "index": 7}
		}]
	},
	"lyric": [{"fullLyrics": "la la la"}]
}`

// newTestClient serves routes from a local server and points a Client at it.
func newTestClient(t *testing.T, routes map[string]string) (*Client, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, body := range routes {
		body := body
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	session, err := ymhttp.NewClient(ymhttp.Config{Domain: "music.yandex.ru"})
	require.NoError(t, err)

	client := NewClient(session, "")
	client.baseURL = srv.URL
	return client, srv
}

func TestNewClient_DefaultDomain(t *testing.T) {
	c := NewClient(nil, "")
	assert.Equal(t, DefaultDomain, c.Domain())

	c = NewClient(nil, "music.yandex.com")
	assert.Equal(t, "music.yandex.com", c.Domain())
}

func TestClient_Album(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{"/handlers/album.jsx": albumJSON})

	album, err := client.Album(context.Background(), "5307396")
	require.NoError(t, err)

	assert.Equal(t, "5307396", album.ID)
	assert.Equal(t, "Album (Deluxe)", album.Title)
	assert.Equal(t, 2018, album.Year)
	require.NotNil(t, album.ReleaseDate)
	assert.Equal(t, 9, album.ReleaseDate.Day())
	assert.Equal(t, "Band", album.AlbumArtist().Name)
	assert.Equal(t, 3, album.TrackCount)

	coverURL, ok := album.Cover.URL(400)
	assert.True(t, ok)
	assert.Equal(t, "https://avatars.yandex.net/get-music-content/1/a/400x400", coverURL)

	require.Len(t, album.Tracks, 3)

	one := album.Tracks[0]
	assert.Equal(t, "101", one.ID)
	assert.Equal(t, 1, one.Number)
	assert.Equal(t, 1, one.DiscNumber)
	assert.True(t, one.HasLyrics)
	assert.False(t, one.Full)
	assert.Same(t, album, one.Album)

	two := album.Tracks[1]
	assert.Equal(t, "102", two.ID)
	assert.Equal(t, 2, two.Number)
	assert.True(t, two.HasLyrics)
	assert.Equal(t, []string{"Band", "Guest"}, two.ArtistNames())

	three := album.Tracks[2]
	assert.Equal(t, "Three (Live)", three.Title)
	assert.Equal(t, 1, three.Number)
	assert.Equal(t, 2, three.DiscNumber)
	assert.False(t, three.HasLyrics)
}

func TestClient_AlbumNotFound(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/handlers/album.jsx": `{"error": "not-found"}`,
	})

	_, err := client.Album(context.Background(), "1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_Track(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{"/handlers/track.jsx": trackJSON})

	track, err := client.Track(context.Background(), "101")
	require.NoError(t, err)

	assert.True(t, track.Full)
	assert.Equal(t, "la la la", track.Lyrics)
	assert.Equal(t, 7, track.Number)
	assert.Equal(t, 2, track.DiscNumber)
	require.NotNil(t, track.Album)
	assert.Equal(t, "5307396", track.Album.ID)
	assert.Nil(t, track.Album.ReleaseDate)
}

func TestClient_FullTrackInfo_Absent(t *testing.T) {
	tests := []struct {
		name  string
		route string
		body  string
	}{
		{name: "error body", route: "/handlers/track.jsx", body: `{"error": "not-found"}`},
		{name: "no track", route: "/handlers/track.jsx", body: `{}`},
		{name: "404", route: "/other", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, map[string]string{tt.route: tt.body})

			track, err := client.FullTrackInfo(context.Background(), "101")
			assert.NoError(t, err)
			assert.Nil(t, track)
		})
	}
}

func TestClient_FullTrackInfo_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	session, err := ymhttp.NewClient(ymhttp.Config{Domain: "music.yandex.ru"})
	require.NoError(t, err)
	client := NewClient(session, "")
	client.baseURL = srv.URL

	track, err := client.FullTrackInfo(context.Background(), "101")
	assert.Nil(t, track)
	assert.True(t, errors.Is(err, ymhttp.ErrStatus))
}

func TestClient_ArtistAlbums(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/handlers/artist.jsx": `{"artist": {"id": 1, "name": "Band"}, "albums": [{"id": 3}, {"id": "4"}, {"id": 3}]}`,
	})

	ids, err := client.ArtistAlbums(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, ids)
}

func TestClient_TrackDownloadURL(t *testing.T) {
	var gotPath, gotQuery string
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/api/v2.1/handlers/track/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("hq")
		fmt.Fprintf(w, `{"codec": "mp3", "src": %q}`, srv.URL+"/storage?sign=abc")
	})
	mux.HandleFunc("/storage", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"host": "s1.storage.yandex.net", "path": "/rmusic/U2FsdGVk", "ts": "0005f", "s": "secret"}`)
	})

	session, err := ymhttp.NewClient(ymhttp.Config{Domain: "music.yandex.ru"})
	require.NoError(t, err)
	client := NewClient(session, "")
	client.baseURL = srv.URL

	track := &model.Track{ID: "101", Album: &model.Album{ID: "5307396"}}
	got, err := client.TrackDownloadURL(context.Background(), track, true)
	require.NoError(t, err)

	sign := md5.Sum([]byte(signSalt + "rmusic/U2FsdGVk" + "secret"))
	want := fmt.Sprintf("https://s1.storage.yandex.net/get-mp3/%x/0005f/rmusic/U2FsdGVk", sign)
	assert.Equal(t, want, got)
	assert.Equal(t, "/api/v2.1/handlers/track/101:5307396/web-album_track-track-track-main/download/m", gotPath)
	assert.Equal(t, "1", gotQuery)
}

func TestClient_TrackDownloadURL_NoSrc(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/api/v2.1/handlers/track/": `{"codec": "mp3"}`,
	})

	_, err := client.TrackDownloadURL(context.Background(), &model.Track{ID: "1"}, false)
	assert.True(t, errors.Is(err, ErrNoDownloadInfo))
}

func TestStorageInfoURL(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"//storage.mds.yandex.net/download-info/1?sign=x", "https://storage.mds.yandex.net/download-info/1?sign=x&format=json"},
		{"https://storage.mds.yandex.net/download-info/1", "https://storage.mds.yandex.net/download-info/1?format=json"},
	}

	for _, tt := range tests {
		if got := storageInfoURL(tt.src); got != tt.want {
			t.Errorf("storageInfoURL(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Target
		wantErr bool
	}{
		{name: "album", input: "https://music.yandex.ru/album/123", want: Target{AlbumID: "123"}},
		{name: "album trailing slash", input: "https://music.yandex.ru/album/123/", want: Target{AlbumID: "123"}},
		{name: "album track", input: "https://music.yandex.ru/album/123/track/456", want: Target{AlbumID: "123", TrackID: "456"}},
		{name: "track", input: "https://music.yandex.com/track/456?utm_source=x", want: Target{TrackID: "456"}},
		{name: "artist", input: "https://music.yandex.ru/artist/789", want: Target{ArtistID: "789"}},
		{name: "artist albums", input: "https://music.yandex.ru/artist/789/albums", want: Target{ArtistID: "789"}},
		{name: "spaces", input: "  https://music.yandex.ru/album/1  ", want: Target{AlbumID: "1"}},
		{name: "other host", input: "https://example.com/album/123", wantErr: true},
		{name: "playlist", input: "https://music.yandex.ru/users/me/playlists/3", wantErr: true},
		{name: "not numeric", input: "https://music.yandex.ru/album/abc", wantErr: true},
		{name: "no scheme", input: "album/123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("expected ErrInvalidURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTarget_Kind(t *testing.T) {
	assert.True(t, Target{AlbumID: "1", TrackID: "2"}.IsTrack())
	assert.False(t, Target{AlbumID: "1"}.IsTrack())
	assert.True(t, Target{ArtistID: "3"}.IsArtist())
}

func TestParseInputs(t *testing.T) {
	input := "https://music.yandex.ru/album/1, https://music.yandex.ru/album/1\nhttps://example.com/x https://music.yandex.ru/track/2"

	targets, invalid := ParseInputs(input)

	assert.Equal(t, []Target{{AlbumID: "1"}, {TrackID: "2"}}, targets)
	assert.Equal(t, []string{"https://example.com/x"}, invalid)
}
