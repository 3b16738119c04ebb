package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/yandex-music-downloader/internal/model"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, model.DefaultPathPattern, s.PathPattern)
	assert.Equal(t, 400, s.CoverResolution)
	assert.Equal(t, "music.yandex.ru", s.Domain)
	assert.NoError(t, s.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	s := DefaultSettings()
	s.PathPattern = "#album-id/#track-id"
	s.EmbedCover = true
	s.CoverMaxSize = 600
	s.SessionID = "secret"
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#album-id/#track-id", loaded.PathPattern)
	assert.True(t, loaded.EmbedCover)
	assert.Equal(t, 600, loaded.CoverMaxSize)
	assert.Empty(t, loaded.SessionID)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hq": true}`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.HQ)
	assert.Equal(t, 400, s.CoverResolution)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSessionID, " 3:abc ")
	t.Setenv(EnvDomain, "music.yandex.com")
	t.Setenv(EnvUserAgent, "")

	s := DefaultSettings()
	s.UserAgent = "custom"
	s.ApplyEnv()

	assert.Equal(t, "3:abc", s.SessionID)
	assert.Equal(t, "music.yandex.com", s.Domain)
	assert.Equal(t, "custom", s.UserAgent)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("YMD_USER_AGENT=from-file\n"), 0644))

	t.Setenv(EnvUserAgent, "")
	os.Unsetenv(EnvUserAgent)

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "from-file", os.Getenv(EnvUserAgent))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"empty pattern", func(s *Settings) { s.PathPattern = "" }},
		{"no workers", func(s *Settings) { s.MaxConcurrentTracks = 0 }},
		{"zero resolution", func(s *Settings) { s.CoverResolution = 0 }},
		{"negative max size", func(s *Settings) { s.CoverMaxSize = -1 }},
		{"empty domain", func(s *Settings) { s.Domain = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			if err := s.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
