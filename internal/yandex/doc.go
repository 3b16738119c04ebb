// Package yandex talks to the Yandex Music web handlers and converts
// their JSON into model descriptors.
//
// The package handles three use cases:
//
//  1. Fetching albums with their tracks and single tracks with lyrics
//  2. Resolving a signed MP3 download URL for a track
//  3. Parsing user supplied album, track and artist URLs
//
// # Fetching
//
//	client := yandex.NewClient(httpClient, "music.yandex.ru")
//	album, err := client.Album(ctx, "1234")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, track := range album.Tracks {
//	    fmt.Println(track)
//	}
//
// # URLs
//
//	target, err := yandex.ParseURL("https://music.yandex.ru/album/1/track/2")
//	// target.AlbumID = "1", target.TrackID = "2"
//
// # Identifiers
//
// The handlers return identifiers either as JSON numbers or as strings.
// Both are accepted and kept as strings in the model.
package yandex
