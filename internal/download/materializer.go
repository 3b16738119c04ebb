package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/handiism/yandex-music-downloader/internal/audio"
	"github.com/handiism/yandex-music-downloader/internal/cache"
	ioutils "github.com/handiism/yandex-music-downloader/internal/io"
	"github.com/handiism/yandex-music-downloader/internal/model"
)

const (
	// DefaultCoverResolution is the cover size requested when
	// Options.CoverResolution is zero.
	DefaultCoverResolution = 400

	// CoverFileName is the sidecar cover written next to the tracks when
	// covers are not embedded.
	CoverFileName = "cover.jpg"
)

// ErrNoAlbum is returned for tracks without an album descriptor.
var ErrNoAlbum = errors.New("track has no album")

// API is the part of the service client used to materialize a track.
// *yandex.Client implements it.
type API interface {
	// TrackDownloadURL returns a short-lived URL of the track audio.
	TrackDownloadURL(ctx context.Context, track *model.Track, hq bool) (string, error)

	// FullTrackInfo returns the full descriptor of a track, or nil when
	// the service has none.
	FullTrackInfo(ctx context.Context, trackID string) (*model.Track, error)

	// Domain returns the service domain written into the source URL tag.
	Domain() string
}

// Fetcher transfers payloads. *http.Client implements it.
type Fetcher interface {
	DownloadFile(ctx context.Context, rawURL, destPath string, onProgress func(written, total int64)) error
	DownloadBytes(ctx context.Context, rawURL string) ([]byte, error)
}

// TagWriter writes the metadata of a downloaded track. *audio.Tagger
// implements it.
type TagWriter interface {
	WriteTags(path string, track *model.Track, lyrics string, cover []byte, domain string) error
}

// Options controls how one track is materialized.
type Options struct {
	// BaseDir is the directory the rendered path is placed under. It is
	// used as given, without placeholder substitution or cleaning.
	BaseDir string

	// CoverResolution is the square cover size in pixels. Zero means
	// DefaultCoverResolution.
	CoverResolution int

	// HQ requests the highest available audio bitrate.
	HQ bool

	// AddLyrics embeds lyrics for tracks that have them.
	AddLyrics bool

	// EmbedCover embeds the album cover in the tag. When false the cover
	// is written to a CoverFileName sidecar instead.
	EmbedCover bool

	// UnsafePath keeps placeholder values unfiltered.
	UnsafePath bool

	// NumberPadded is the value of #number-padded.
	NumberPadded string

	// CoverMaxSize scales embedded covers down to fit. Zero keeps the
	// downloaded size.
	CoverMaxSize int

	// OnTransfer receives audio transfer progress. Optional.
	OnTransfer func(written, total int64)
}

// Materializer downloads a track to its rendered path and tags it.
//
// A Materializer holds no per-batch state: covers are shared through the
// CoverCache passed to each call. It is safe for concurrent use.
type Materializer struct {
	api     API
	fetcher Fetcher
	tags    TagWriter
	images  *ioutils.ImageService

	onProgress ProgressFunc
}

// NewMaterializer creates a Materializer writing tags with audio.Tagger.
func NewMaterializer(api API, fetcher Fetcher, onProgress ProgressFunc) *Materializer {
	return &Materializer{
		api:        api,
		fetcher:    fetcher,
		tags:       audio.NewTagger(),
		images:     ioutils.NewImageService(),
		onProgress: onProgress,
	}
}

// SetTagWriter replaces the tag writer.
func (m *Materializer) SetTagWriter(w TagWriter) {
	m.tags = w
}

// Materialize downloads track to the path rendered from pattern under
// opts.BaseDir and writes its tags. It returns the final path.
//
// The steps are:
//  1. Render the path and create its parent directory
//  2. Download the audio, overwriting any file at the path
//  3. Resolve lyrics when requested and available
//  4. Resolve the cover, embedded through covers or as a sidecar file
//  5. Write the tags
//
// Nothing is retried. Missing lyrics and a missing cover are not errors;
// every other failure is returned. A nil covers gives the call a private
// cache.
func (m *Materializer) Materialize(ctx context.Context, track *model.Track, pattern string, covers *cache.CoverCache, opts Options) (string, error) {
	if track.Album == nil {
		return "", fmt.Errorf("track %s: %w", track.ID, ErrNoAlbum)
	}
	if covers == nil {
		covers = cache.NewCoverCache()
	}

	path := TrackPath(opts.BaseDir, pattern, track, opts.UnsafePath, opts.NumberPadded)

	downloadURL, err := m.api.TrackDownloadURL(ctx, track, opts.HQ)
	if err != nil {
		return path, fmt.Errorf("failed to get download URL: %w", err)
	}
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return path, err
	}
	if err := m.fetcher.DownloadFile(ctx, downloadURL, path, opts.OnTransfer); err != nil {
		return path, fmt.Errorf("failed to download audio: %w", err)
	}

	var lyrics string
	if opts.AddLyrics && track.HasLyrics {
		lyrics = m.resolveLyrics(ctx, track)
	}

	cover, err := m.resolveCover(ctx, track.Album, path, covers, opts)
	if err != nil {
		return path, err
	}

	if err := m.tags.WriteTags(path, track, lyrics, cover, m.api.Domain()); err != nil {
		return path, fmt.Errorf("failed to write tags: %w", err)
	}

	return path, nil
}

// resolveLyrics returns the lyrics of a full descriptor as is and asks the
// service for the full descriptor of a basic one. Lyrics the service cannot
// provide are absent.
func (m *Materializer) resolveLyrics(ctx context.Context, track *model.Track) string {
	if track.Full {
		return track.Lyrics
	}

	full, err := m.api.FullTrackInfo(ctx, track.ID)
	if err != nil {
		m.onProgress.emit(LevelWarning, fmt.Sprintf("No lyrics for %s: %v", track.Title, err))
		return ""
	}
	if full == nil {
		return ""
	}
	return full.Lyrics
}

// resolveCover returns the cover to embed, or nil. In sidecar mode the
// cover is written next to the track and nil is returned.
func (m *Materializer) resolveCover(ctx context.Context, album *model.Album, trackPath string, covers *cache.CoverCache, opts Options) ([]byte, error) {
	resolution := opts.CoverResolution
	if resolution == 0 {
		resolution = DefaultCoverResolution
	}
	coverURL, ok := album.Cover.URL(resolution)
	if !ok {
		return nil, nil
	}

	if opts.EmbedCover {
		cover, err := covers.Cover(ctx, album.ID, func(ctx context.Context) ([]byte, error) {
			return m.fetchCover(ctx, coverURL, opts.CoverMaxSize)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to download cover: %w", err)
		}
		return cover, nil
	}

	sidecar := filepath.Join(filepath.Dir(trackPath), CoverFileName)
	written, err := covers.Sidecar(sidecar, func() error {
		cover, err := m.fetchCover(ctx, coverURL, 0)
		if err != nil {
			return err
		}
		return ioutils.WriteFile(ctx, sidecar, cover)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}
	if written {
		m.onProgress.emit(LevelVerbose, fmt.Sprintf("Saved cover for %s", album.Title))
	}
	return nil, nil
}

// TrackPath renders pattern for track and places the result under
// baseDir. Only the rendered part is sanitized.
func TrackPath(baseDir, pattern string, track *model.Track, unsafe bool, numberPadded string) string {
	rendered := model.PreparePath(pattern, track, unsafe, numberPadded)
	if baseDir == "" {
		return rendered
	}
	return filepath.Join(baseDir, rendered)
}

// fetchCover downloads a cover and converts it to JPEG, scaled to fit
// maxSize when positive. Bytes that cannot be decoded are kept as
// downloaded.
func (m *Materializer) fetchCover(ctx context.Context, coverURL string, maxSize int) ([]byte, error) {
	data, err := m.fetcher.DownloadBytes(ctx, coverURL)
	if err != nil {
		return nil, err
	}

	normalized, err := m.images.NormalizeCover(ctx, data, maxSize)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.onProgress.emit(LevelWarning, fmt.Sprintf("Keeping cover as downloaded: %v", err))
		return data, nil
	}
	return normalized, nil
}
