package uploader

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/xob0t/google-photos-mobile-client/internal/api"
	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

// ResolveAlbum computes the target album for a file before it enters the
// pipeline. In auto mode the album name is the file's immediate parent
// directory name, and the cache key is the parent's full path so that
// same-named directories at different depths stay distinct albums.
func ResolveAlbum(directive model.AlbumDirective, filePath string) (name, key string) {
	switch directive.Mode {
	case model.AlbumFixed:
		return directive.Name, "fixed\x00" + directive.Name
	case model.AlbumAuto:
		abs, err := filepath.Abs(filePath)
		if err != nil {
			abs = filePath
		}
		parent := filepath.Dir(abs)
		return filepath.Base(parent), parent
	default:
		return "", ""
	}
}

// AlbumCache maps album cache keys to remote album keys for the duration of
// a run. The first worker to need an album creates it remotely (seeded with
// that worker's media item); concurrent requesters for the same key block
// until the entry is populated. Creation happens at most once per key
// unless it failed, in which case a later requester may retry.
type AlbumCache struct {
	mu      sync.Mutex
	entries map[string]*albumEntry
}

type albumEntry struct {
	ready chan struct{}

	// Guarded by AlbumCache.mu after ready is closed.
	albumKey string
	err      error
	count    int // items assigned, for the per-album size limit
}

// NewAlbumCache returns an empty per-run cache.
func NewAlbumCache() *AlbumCache {
	return &AlbumCache{entries: make(map[string]*albumEntry)}
}

// Assign puts mediaKey into the album identified by cacheKey, creating the
// album remotely if this is the first request for it. When an album reaches
// the service's per-album item limit, items roll over to numbered siblings
// ("name 2", "name 3", ...). It returns the remote album key the item
// ended up in.
func (c *AlbumCache) Assign(ctx context.Context, client Client, name, cacheKey, mediaKey string) (string, error) {
	for bucket := 0; ; bucket++ {
		bucketName, bucketKey := name, cacheKey
		if bucket > 0 {
			bucketName = fmt.Sprintf("%s %d", name, bucket+1)
			bucketKey = fmt.Sprintf("%s\x00%d", cacheKey, bucket)
		}

		albumKey, full, err := c.assignBucket(ctx, client, bucketName, bucketKey, mediaKey)
		if err != nil {
			return "", err
		}
		if !full {
			return albumKey, nil
		}
	}
}

// assignBucket adds mediaKey to one concrete album, creating it on first
// use. full is reported when the album is at capacity and the caller
// should roll over to the next bucket.
func (c *AlbumCache) assignBucket(ctx context.Context, client Client, name, cacheKey, mediaKey string) (albumKey string, full bool, err error) {
	for {
		c.mu.Lock()
		e, ok := c.entries[cacheKey]
		if !ok {
			e = &albumEntry{ready: make(chan struct{})}
			c.entries[cacheKey] = e
			c.mu.Unlock()

			albumKey, err := client.CreateAlbum(ctx, name, []string{mediaKey})

			c.mu.Lock()
			e.albumKey, e.err = albumKey, err
			if err == nil {
				e.count = 1
			} else {
				// Let a later requester retry the creation.
				delete(c.entries, cacheKey)
			}
			c.mu.Unlock()
			close(e.ready)
			return albumKey, false, err
		}
		c.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			return "", false, ctx.Err()
		}

		c.mu.Lock()
		if e.err != nil {
			// Entry was already removed by the failed creator; loop to
			// race for a fresh creation slot.
			c.mu.Unlock()
			continue
		}
		if e.count >= api.AlbumItemLimit {
			c.mu.Unlock()
			return "", true, nil
		}
		e.count++
		albumKey := e.albumKey
		c.mu.Unlock()

		if err := client.AddMediaToAlbum(ctx, albumKey, []string{mediaKey}); err != nil {
			c.mu.Lock()
			e.count--
			c.mu.Unlock()
			return "", false, err
		}
		return albumKey, false, nil
	}
}
