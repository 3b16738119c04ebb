// Package model defines the core data structures used throughout
// the yandex-music-downloader application.
//
// # Album
//
// Album describes a release: title, year, optional full release date,
// artists and the cover reference:
//
//	url, ok := album.Cover.URL(400)
//	if ok {
//	    fmt.Println(url) // https://avatars.yandex.net/.../400x400
//	}
//
// # Track
//
// Track describes a single song and points back to its album. A track
// returned by a "full track info" request has Full set and carries its
// lyrics text.
//
// # Path Templates
//
// PreparePath renders a destination path from a pattern:
//
//	path := model.PreparePath("#album-artist/#album/#number - #title", track, false, "03")
//	// "Artist/Album/3 - Title.mp3"
//
// Available placeholders: #album-artist, #artist-id, #album-id, #track-id,
// #number-padded, #number, #artist, #title, #album, #year
package model
