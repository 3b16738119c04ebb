package cache

import (
	"context"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc downloads the bytes for a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// CoverCache is a write-once map from album id to cover bytes.
//
// The zero value is not usable; create one with NewCoverCache.
// A CoverCache is safe for concurrent use.
type CoverCache struct {
	mu     sync.RWMutex
	covers map[string][]byte

	fetches  singleflight.Group
	sidecars singleflight.Group
}

// NewCoverCache creates an empty cache for one batch.
func NewCoverCache() *CoverCache {
	return &CoverCache{covers: make(map[string][]byte)}
}

// Get returns the cached cover of an album.
func (c *CoverCache) Get(albumID string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cover, ok := c.covers[albumID]
	return cover, ok
}

// Len returns the number of cached covers.
func (c *CoverCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.covers)
}

// Cover returns the cover of an album, calling fetch on a miss.
//
// At most one fetch runs per album id: concurrent callers for the same id
// wait on the in-flight fetch and receive its result. A successful
// result is stored and never replaced. A failed fetch stores nothing and
// its error is returned to every caller that waited on it; a later call
// tries again.
//
// The shared fetch is not cancelled with the context of the caller that
// started it. Each caller stops waiting when its own ctx is done.
func (c *CoverCache) Cover(ctx context.Context, albumID string, fetch FetchFunc) ([]byte, error) {
	if cover, ok := c.Get(albumID); ok {
		return cover, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.fetches.DoChan(albumID, func() (any, error) {
		// A fetch for this id may have finished between Get and DoChan.
		if cover, ok := c.Get(albumID); ok {
			return cover, nil
		}
		cover, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if existing, ok := c.covers[albumID]; ok {
			cover = existing
		} else {
			c.covers[albumID] = cover
		}
		c.mu.Unlock()
		return cover, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Sidecar writes a cover file next to the tracks unless it already exists.
//
// An existing file is never refreshed, whatever its content. Concurrent
// calls for the same path share one in-flight write, so a batch downloads
// each sidecar once. The returned bool reports whether the file was
// written, by this call or by the one it waited on.
func (c *CoverCache) Sidecar(path string, write func() error) (bool, error) {
	v, err, _ := c.sidecars.Do(path, func() (any, error) {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return false, nil
		}
		if err := write(); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
