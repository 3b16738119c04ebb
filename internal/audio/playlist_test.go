package audio

import (
	"strings"
	"testing"

	"github.com/handiism/yandex-music-downloader/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	album, entries := createTestAlbum()
	content := NewPlaylistCreator(FormatM3U, false).CreatePlaylist(album, entries)

	if !strings.Contains(content, "1 - track1.mp3") {
		t.Error("M3U should contain track path")
	}
	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not contain #EXTM3U")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	album, entries := createTestAlbum()
	content := NewPlaylistCreator(FormatM3U, true).CreatePlaylist(album, entries)

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:180,Test Artist - track1") {
		t.Errorf("Extended M3U should contain #EXTINF with duration and title, got:\n%s", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	album, entries := createTestAlbum()
	content := NewPlaylistCreator(FormatPLS, false).CreatePlaylist(album, entries)

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries=2")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	album, entries := createTestAlbum()
	content := NewPlaylistCreator(FormatWPL, false).CreatePlaylist(album, entries)

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<media src=") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	album, entries := createTestAlbum()
	content := NewPlaylistCreator(FormatZPL, false).CreatePlaylist(album, entries)

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, `duration="180000"`) {
		t.Error("ZPL should contain duration in milliseconds")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	album := &model.Album{Title: "Album <Special>", Artists: []model.Artist{{Name: "Artist & Co"}}}
	track := &model.Track{Title: `Track & "Quote"`, Album: album}
	entries := []PlaylistEntry{{Path: "a&b.mp3", Track: track}}

	content := NewPlaylistCreator(FormatWPL, false).CreatePlaylist(album, entries)

	if !strings.Contains(content, "a&amp;b.mp3") {
		t.Error("WPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("WPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		in   string
		want PlaylistFormat
		ext  string
	}{
		{"m3u", FormatM3U, ".m3u"},
		{"PLS", FormatPLS, ".pls"},
		{"wpl", FormatWPL, ".wpl"},
		{"zpl", FormatZPL, ".zpl"},
		{"bogus", FormatM3U, ".m3u"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParsePlaylistFormat(tt.in)
			if got != tt.want {
				t.Errorf("ParsePlaylistFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", got.Extension(), tt.ext)
			}
		})
	}
}

func createTestAlbum() (*model.Album, []PlaylistEntry) {
	album := &model.Album{
		ID:      "1",
		Title:   "Test Album",
		Artists: []model.Artist{{Name: "Test Artist"}},
	}
	artists := []model.Artist{{Name: "Test Artist"}}
	track1 := &model.Track{ID: "11", Number: 1, Title: "track1", DurationMs: 180000, Album: album, Artists: artists}
	track2 := &model.Track{ID: "12", Number: 2, Title: "track2", DurationMs: 200000, Album: album, Artists: artists}
	album.Tracks = []*model.Track{track1, track2}

	return album, []PlaylistEntry{
		{Path: "1 - track1.mp3", Track: track1},
		{Path: "2 - track2.mp3", Track: track2},
	}
}
