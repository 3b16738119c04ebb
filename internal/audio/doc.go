// Package audio provides audio file manipulation services including
// ID3 tag writing and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3v2.4 tags to downloaded MP3 files:
//
//	tagger := audio.NewTagger()
//	err := tagger.WriteTags(path, track, lyrics, coverBytes, "music.yandex.ru")
//
// The tag container is always rebuilt from scratch with:
//   - Artists (null separated), Album Artist
//   - Album Title, Track Title
//   - Track Number, Disc Number
//   - Release and original release date
//   - Encoded-by attribution and the source URL of the track
//   - Lyrics (optional)
//   - Front cover (optional, embedded as image/jpeg)
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(album, paths)
//	os.WriteFile("playlist.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
