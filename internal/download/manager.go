package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/yandex-music-downloader/internal/audio"
	"github.com/handiism/yandex-music-downloader/internal/cache"
	"github.com/handiism/yandex-music-downloader/internal/config"
	"github.com/handiism/yandex-music-downloader/internal/http"
	ioutils "github.com/handiism/yandex-music-downloader/internal/io"
	"github.com/handiism/yandex-music-downloader/internal/model"
	"github.com/handiism/yandex-music-downloader/internal/yandex"
)

// ErrNothingToDownload is returned by Initialize when no input resolved to
// a track.
var ErrNothingToDownload = errors.New("nothing to download")

// Client is the service client used by the Manager. *yandex.Client
// implements it.
type Client interface {
	API
	Album(ctx context.Context, albumID string) (*model.Album, error)
	Track(ctx context.Context, trackID string) (*model.Track, error)
	ArtistAlbums(ctx context.Context, artistID string) ([]string, error)
}

// albumJob is an album and the tracks of it selected for download.
type albumJob struct {
	album  *model.Album
	tracks []*model.Track
}

// Manager coordinates a batch of track downloads.
type Manager struct {
	settings     *config.Settings
	client       Client
	materializer *Materializer
	playlist     *audio.PlaylistCreator

	jobs []*albumJob

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32
	skippedFiles    int32
	failedFiles     int32

	onProgress ProgressFunc
	mu         sync.RWMutex
}

// New creates a Manager talking to Yandex Music with a session built from
// settings.
func New(settings *config.Settings, onProgress func(ProgressEvent)) (*Manager, error) {
	httpClient, err := http.NewClient(http.Config{
		Domain:    settings.Domain,
		SessionID: settings.SessionID,
		UserAgent: settings.UserAgent,
		Timeout:   time.Duration(settings.RequestTimeout * float64(time.Second)),
	})
	if err != nil {
		return nil, err
	}
	return NewManager(settings, yandex.NewClient(httpClient, settings.Domain), httpClient, onProgress), nil
}

// NewManager creates a Manager with the given service client and fetcher.
func NewManager(settings *config.Settings, client Client, fetcher Fetcher, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:     settings,
		client:       client,
		materializer: NewMaterializer(client, fetcher, onProgress),
		playlist:     audio.NewPlaylistCreator(audio.ParsePlaylistFormat(settings.PlaylistFormat), settings.M3UExtended),
		onProgress:   onProgress,
	}
}

// Materializer returns the Materializer used for each track.
func (m *Manager) Materializer() *Materializer {
	return m.materializer
}

// Initialize resolves album, track and artist URLs into tracks to download.
//
// Inputs that cannot be parsed or fetched are reported as errors and
// skipped. Returns ErrNothingToDownload when no track was found.
func (m *Manager) Initialize(ctx context.Context, input string) error {
	targets, invalid := yandex.ParseInputs(input)
	for _, in := range invalid {
		m.onProgress.emit(LevelError, fmt.Sprintf("Not a Yandex Music URL: %s", in))
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch {
		case target.IsArtist():
			err = m.addArtist(ctx, target.ArtistID)
		case target.IsTrack():
			err = m.addTrack(ctx, target.TrackID)
		default:
			err = m.addAlbum(ctx, target.AlbumID)
		}
		if err != nil {
			m.onProgress.emit(LevelError, err.Error())
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalFiles = 0
	for _, job := range m.jobs {
		m.totalFiles += int32(len(job.tracks))
	}
	if m.totalFiles == 0 {
		return ErrNothingToDownload
	}
	return nil
}

func (m *Manager) addArtist(ctx context.Context, artistID string) error {
	m.onProgress.emit(LevelVerbose, fmt.Sprintf("Fetching albums of artist %s", artistID))

	albumIDs, err := m.client.ArtistAlbums(ctx, artistID)
	if err != nil {
		return fmt.Errorf("error getting albums of artist %s: %w", artistID, err)
	}
	for _, id := range albumIDs {
		if err := m.addAlbum(ctx, id); err != nil {
			m.onProgress.emit(LevelError, err.Error())
		}
	}
	return nil
}

func (m *Manager) addAlbum(ctx context.Context, albumID string) error {
	m.onProgress.emit(LevelVerbose, fmt.Sprintf("Fetching album info: %s", albumID))

	album, err := m.client.Album(ctx, albumID)
	if err != nil {
		return fmt.Errorf("error fetching album %s: %w", albumID, err)
	}

	job := m.job(album)
	for _, track := range album.Tracks {
		job.add(track)
	}
	m.onProgress.emit(LevelInfo, fmt.Sprintf("Found album: %s", albumName(album)))
	return nil
}

func (m *Manager) addTrack(ctx context.Context, trackID string) error {
	m.onProgress.emit(LevelVerbose, fmt.Sprintf("Fetching track info: %s", trackID))

	track, err := m.client.Track(ctx, trackID)
	if err != nil {
		return fmt.Errorf("error fetching track %s: %w", trackID, err)
	}
	if track.Album == nil || track.Album.ID == "" {
		return fmt.Errorf("track %s: %w", trackID, ErrNoAlbum)
	}

	m.job(track.Album).add(track)
	m.onProgress.emit(LevelInfo, fmt.Sprintf("Found track: %s", track))
	return nil
}

// job returns the job of an album, creating it on first use. Tracks of
// the same album requested separately end up in one job.
func (m *Manager) job(album *model.Album) *albumJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.album.ID == album.ID {
			return j
		}
	}
	j := &albumJob{album: album}
	m.jobs = append(m.jobs, j)
	return j
}

func (j *albumJob) add(track *model.Track) {
	for _, t := range j.tracks {
		if t.ID == track.ID {
			return
		}
	}
	j.tracks = append(j.tracks, track)
}

// trackTotal is the track count used to pad track numbers.
func (j *albumJob) trackTotal() int {
	if j.album.TrackCount > 0 {
		return j.album.TrackCount
	}
	return len(j.album.Tracks)
}

// StartDownloads materializes every initialized track.
//
// Tracks run concurrently up to MaxConcurrentTracks and share one cover
// cache. A failed track is reported and counted; the others continue.
// Playlists are written per album after its tracks finish.
func (m *Manager) StartDownloads(ctx context.Context) error {
	covers := cache.NewCoverCache()
	pattern := m.settings.PathPattern

	limit := m.settings.MaxConcurrentTracks
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	m.mu.RLock()
	jobs := m.jobs
	m.mu.RUnlock()

	paths := make([][]string, len(jobs))
	for i, job := range jobs {
		paths[i] = make([]string, len(job.tracks))
		total := job.trackTotal()
		for k, track := range job.tracks {
			g.Go(func() error {
				path, err := m.downloadTrack(gctx, track, pattern, covers, model.PadNumber(track.Number, total))
				if err != nil {
					atomic.AddInt32(&m.failedFiles, 1)
					m.onProgress.emit(LevelError, fmt.Sprintf("Error downloading %s: %v", track.Title, err))
					return nil
				}
				paths[i][k] = path
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, job := range jobs {
		m.finishAlbum(ctx, job, paths[i])
	}
	return nil
}

// downloadTrack materializes one track unless it is skipped.
func (m *Manager) downloadTrack(ctx context.Context, track *model.Track, pattern string, covers *cache.CoverCache, padded string) (string, error) {
	s := m.settings

	if s.DryRun || s.SkipExisting {
		path := TrackPath(s.DownloadsPath, pattern, track, s.UnsafePath, padded)
		if s.DryRun {
			m.onProgress.emit(LevelInfo, fmt.Sprintf("Would download: %s", path))
			atomic.AddInt32(&m.skippedFiles, 1)
			return path, nil
		}
		if ioutils.IsFile(path) {
			m.onProgress.emit(LevelVerbose, fmt.Sprintf("Skipping existing: %s", filepath.Base(path)))
			atomic.AddInt32(&m.skippedFiles, 1)
			return path, nil
		}
	}

	var last int64
	opts := Options{
		BaseDir:         s.DownloadsPath,
		CoverResolution: s.CoverResolution,
		HQ:              s.HQ,
		AddLyrics:       s.AddLyrics,
		EmbedCover:      s.EmbedCover,
		UnsafePath:      s.UnsafePath,
		NumberPadded:    padded,
		CoverMaxSize:    s.CoverMaxSize,
		OnTransfer: func(written, total int64) {
			atomic.AddInt64(&m.receivedBytes, written-last)
			last = written
		},
	}

	path, err := m.materializer.Materialize(ctx, track, pattern, covers, opts)
	if err != nil {
		return "", err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.onProgress.emit(LevelVerbose, fmt.Sprintf("Downloaded: %s", filepath.Base(path)))
	return path, nil
}

// finishAlbum writes the album playlist and reports the album result.
// paths holds the track paths in job order, empty for failed tracks.
func (m *Manager) finishAlbum(ctx context.Context, job *albumJob, paths []string) {
	var entries []audio.PlaylistEntry
	var dir string
	for k, path := range paths {
		if path == "" {
			continue
		}
		if dir == "" {
			dir = filepath.Dir(path)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		entries = append(entries, audio.PlaylistEntry{Path: rel, Track: job.tracks[k]})
	}

	if m.settings.CreatePlaylist && !m.settings.DryRun && len(entries) > 0 {
		name := ioutils.SanitizeFileName(job.album.Title)
		if name == "" {
			name = job.album.ID
		}
		playlistPath := filepath.Join(dir, name+m.playlist.Format().Extension())
		content := m.playlist.CreatePlaylist(job.album, entries)
		if err := ioutils.WriteFile(ctx, playlistPath, []byte(content)); err != nil {
			m.onProgress.emit(LevelWarning, fmt.Sprintf("Error creating playlist: %v", err))
		} else {
			m.onProgress.emit(LevelSuccess, fmt.Sprintf("Created playlist for %s", job.album.Title))
		}
	}

	if len(entries) == len(job.tracks) {
		m.onProgress.emit(LevelSuccess, fmt.Sprintf("Successfully downloaded album: %s", job.album.Title))
	} else {
		m.onProgress.emit(LevelWarning, fmt.Sprintf("Finished %s, some tracks failed", job.album.Title))
	}
}

// Progress is a snapshot of batch counters.
type Progress struct {
	ReceivedBytes int64
	Downloaded    int32
	Skipped       int32
	Failed        int32
	Total         int32
}

// Done returns the number of tracks that finished in any way.
func (p Progress) Done() int32 {
	return p.Downloaded + p.Skipped + p.Failed
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() Progress {
	m.mu.RLock()
	total := m.totalFiles
	m.mu.RUnlock()
	return Progress{
		ReceivedBytes: atomic.LoadInt64(&m.receivedBytes),
		Downloaded:    atomic.LoadInt32(&m.downloadedFiles),
		Skipped:       atomic.LoadInt32(&m.skippedFiles),
		Failed:        atomic.LoadInt32(&m.failedFiles),
		Total:         total,
	}
}

// GetAlbumNames returns the names of all initialized albums.
func (m *Manager) GetAlbumNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.jobs))
	for i, job := range m.jobs {
		names[i] = fmt.Sprintf("%s (%d tracks)", albumName(job.album), len(job.tracks))
	}
	return names
}

func albumName(album *model.Album) string {
	if artist := album.AlbumArtist().Name; artist != "" {
		return artist + " - " + album.Title
	}
	return album.Title
}
