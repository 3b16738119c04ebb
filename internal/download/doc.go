// Package download provides the download orchestration logic for
// fetching albums and tracks from Yandex Music.
//
// # Materializer
//
// A Materializer turns one track descriptor into a tagged MP3 file:
//
//  1. Render the destination path from the naming pattern
//  2. Download the audio to that path
//  3. Resolve lyrics, falling back to a full track info request
//  4. Resolve the cover, embedded or as a cover.jpg sidecar
//  5. Write the ID3 tags
//
// Covers are shared between tracks through a cache.CoverCache, so a batch
// fetches each album cover once however many tracks run at the same time.
//
// # Manager
//
// The Manager drives a batch:
//
//	manager, err := download.New(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.Initialize(ctx, "https://music.yandex.ru/album/123")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.StartDownloads(ctx)
//
// # Concurrency
//
// Tracks are materialized in parallel, at most MaxConcurrentTracks at a
// time. A failed track is reported and the rest of the batch continues.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// GetProgress returns the byte and track counters of the running batch.
package download
