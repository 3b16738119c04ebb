// Package cache provides the per-batch asset cache shared by concurrent
// track downloads.
//
// A CoverCache maps album ids to downloaded cover bytes. It is created
// once per batch and passed by pointer to every track download of that
// batch:
//
//	covers := cache.NewCoverCache()
//	cover, err := covers.Cover(ctx, album.ID, func(ctx context.Context) ([]byte, error) {
//	    return client.DownloadBytes(ctx, coverURL)
//	})
//
// Concurrent callers asking for the same album wait for the in-flight
// download instead of starting their own, so each cover is fetched at most
// once per batch. Entries are never evicted.
package cache
