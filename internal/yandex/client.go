package yandex

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"net/url"
	"strings"

	ymhttp "github.com/handiism/yandex-music-downloader/internal/http"
	"github.com/handiism/yandex-music-downloader/internal/model"
)

// DefaultDomain is the service domain used when none is configured.
const DefaultDomain = "music.yandex.ru"

// signSalt is the static prefix of the get-mp3 path signature.
const signSalt = "XGRlBW9FXlekgbPrRHuSiA"

var (
	// ErrNotFound is returned when the service has no album, track or
	// artist with the requested id.
	ErrNotFound = errors.New("not found")

	// ErrNoDownloadInfo is returned when the service does not offer a
	// download for a track, usually because the session lacks a
	// subscription.
	ErrNoDownloadInfo = errors.New("no download info")
)

// Session performs JSON requests. *http.Client from internal/http
// implements it.
type Session interface {
	GetJSON(ctx context.Context, rawURL string, v any) error
}

// Client is a Yandex Music web API client.
//
// A Client is safe for concurrent use if its Session is.
type Client struct {
	session Session
	domain  string
	baseURL string
}

// NewClient creates a client for domain, e.g. "music.yandex.ru".
// An empty domain means DefaultDomain.
func NewClient(session Session, domain string) *Client {
	if domain == "" {
		domain = DefaultDomain
	}
	return &Client{
		session: session,
		domain:  domain,
		baseURL: "https://" + domain,
	}
}

// Domain returns the service domain.
func (c *Client) Domain() string {
	return c.domain
}

// Album fetches an album with the tracks of all its volumes.
//
// Returns ErrNotFound if the album does not exist.
func (c *Client) Album(ctx context.Context, albumID string) (*model.Album, error) {
	u := c.baseURL + "/handlers/album.jsx?album=" + url.QueryEscape(albumID)

	var resp jsonAlbum
	if err := c.session.GetJSON(ctx, u, &resp); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("album %s: %w", albumID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch album %s: %w", albumID, err)
	}
	if resp.Error != "" || resp.ID == "" {
		return nil, fmt.Errorf("album %s: %w", albumID, ErrNotFound)
	}

	return resp.toAlbumWithTracks(), nil
}

// Track fetches the full descriptor of a track, lyrics included.
//
// Returns ErrNotFound if the track does not exist.
func (c *Client) Track(ctx context.Context, trackID string) (*model.Track, error) {
	u := c.baseURL + "/handlers/track.jsx?track=" + url.QueryEscape(trackID)

	var resp jsonTrackInfo
	if err := c.session.GetJSON(ctx, u, &resp); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("track %s: %w", trackID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch track %s: %w", trackID, err)
	}
	if resp.Error != "" || resp.Track == nil || resp.Track.ID == "" {
		return nil, fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}

	return resp.toTrack(), nil
}

// FullTrackInfo is Track with a missing track reported as (nil, nil).
func (c *Client) FullTrackInfo(ctx context.Context, trackID string) (*model.Track, error) {
	track, err := c.Track(ctx, trackID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return track, err
}

// ArtistAlbums returns the ids of the albums of an artist.
//
// Returns ErrNotFound if the artist does not exist or has no albums.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string) ([]string, error) {
	u := c.baseURL + "/handlers/artist.jsx?what=albums&artist=" + url.QueryEscape(artistID)

	var resp jsonArtistInfo
	if err := c.session.GetJSON(ctx, u, &resp); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("artist %s: %w", artistID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch artist %s: %w", artistID, err)
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, len(resp.Albums))
	for _, a := range resp.Albums {
		id := string(a.ID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("artist %s: %w", artistID, ErrNotFound)
	}
	return ids, nil
}

// TrackDownloadURL resolves the signed MP3 URL of a track.
//
// The service answers the download handler with a storage info URL; the
// storage info holds the host, path, timestamp and secret from which the
// get-mp3 URL is built:
//
//	https://{host}/get-mp3/{md5(salt + path[1:] + s)}/{ts}{path}
//
// hq requests the highest available bitrate.
func (c *Client) TrackDownloadURL(ctx context.Context, track *model.Track, hq bool) (string, error) {
	albumID := ""
	if track.Album != nil {
		albumID = track.Album.ID
	}
	quality := "0"
	if hq {
		quality = "1"
	}

	u := fmt.Sprintf("%s/api/v2.1/handlers/track/%s:%s/web-album_track-track-track-main/download/m?hq=%s",
		c.baseURL, url.PathEscape(track.ID), url.PathEscape(albumID), quality)

	var info jsonDownloadInfo
	if err := c.session.GetJSON(ctx, u, &info); err != nil {
		return "", fmt.Errorf("failed to get download info for track %s: %w", track.ID, err)
	}
	if info.Src == "" {
		return "", fmt.Errorf("track %s: %w", track.ID, ErrNoDownloadInfo)
	}

	var storage jsonStorageInfo
	if err := c.session.GetJSON(ctx, storageInfoURL(info.Src), &storage); err != nil {
		return "", fmt.Errorf("failed to get storage info for track %s: %w", track.ID, err)
	}
	if !storage.valid() {
		return "", fmt.Errorf("track %s: incomplete storage info: %w", track.ID, ErrNoDownloadInfo)
	}

	return signedURL(storage), nil
}

// storageInfoURL turns the download handler "src" into the JSON storage
// info URL. src may be scheme relative.
func storageInfoURL(src string) string {
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	if strings.Contains(src, "?") {
		return src + "&format=json"
	}
	return src + "?format=json"
}

func signedURL(s jsonStorageInfo) string {
	sign := md5.Sum([]byte(signSalt + s.Path[1:] + s.S))
	return fmt.Sprintf("https://%s/get-mp3/%x/%s%s", s.Host, sign, s.TS, s.Path)
}

func isNotFound(err error) bool {
	var statusErr *ymhttp.StatusError
	return errors.As(err, &statusErr) && statusErr.Code == 404
}
