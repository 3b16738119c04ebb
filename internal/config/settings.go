package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/handiism/yandex-music-downloader/internal/model"
)

// Environment variables read by ApplyEnv.
const (
	EnvSessionID = "YMD_SESSION_ID"
	EnvDomain    = "YMD_DOMAIN"
	EnvUserAgent = "YMD_USER_AGENT"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid settings")

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath       string `json:"downloads_path"`
	PathPattern         string `json:"path_pattern"`
	MaxConcurrentTracks int    `json:"max_concurrent_tracks"`
	SkipExisting        bool   `json:"skip_existing"`
	DryRun              bool   `json:"-"`

	// Track options
	HQ         bool `json:"hq"`
	AddLyrics  bool `json:"add_lyrics"`
	UnsafePath bool `json:"unsafe_path"`

	// Cover art settings
	EmbedCover      bool `json:"embed_cover"`
	CoverResolution int  `json:"cover_resolution"`
	CoverMaxSize    int  `json:"cover_max_size"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`

	// Session settings
	Domain         string  `json:"domain"`
	UserAgent      string  `json:"user_agent,omitempty"`
	SessionID      string  `json:"-"`
	RequestTimeout float64 `json:"request_timeout"` // seconds
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadsPath:       filepath.Join(homeDir, "Music", "Yandex"),
		PathPattern:         model.DefaultPathPattern,
		MaxConcurrentTracks: 4,
		SkipExisting:        true,

		HQ:         false,
		AddLyrics:  false,
		UnsafePath: false,

		EmbedCover:      false,
		CoverResolution: 400,
		CoverMaxSize:    0,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		Domain:         "music.yandex.ru",
		RequestTimeout: 60,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
//
// The session id is never written.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadEnv loads the given .env files into the process environment.
// Variables already set are kept. Missing files are ignored.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides session settings from the environment.
func (s *Settings) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvSessionID)); v != "" {
		s.SessionID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDomain)); v != "" {
		s.Domain = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUserAgent)); v != "" {
		s.UserAgent = v
	}
}

// Validate checks values a download cannot start without.
func (s *Settings) Validate() error {
	switch {
	case s.PathPattern == "":
		return fmt.Errorf("%w: empty path pattern", ErrInvalid)
	case s.MaxConcurrentTracks < 1:
		return fmt.Errorf("%w: max concurrent tracks must be at least 1", ErrInvalid)
	case s.CoverResolution < 1:
		return fmt.Errorf("%w: cover resolution must be positive", ErrInvalid)
	case s.CoverMaxSize < 0:
		return fmt.Errorf("%w: cover max size must not be negative", ErrInvalid)
	case s.Domain == "":
		return fmt.Errorf("%w: empty domain", ErrInvalid)
	}
	return nil
}
