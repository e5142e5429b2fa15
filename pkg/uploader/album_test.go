package uploader

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/google-photos-mobile-client/internal/api"
	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

func TestResolveAlbum(t *testing.T) {
	none, _ := ResolveAlbum(model.AlbumDirective{}, "/photos/trip/a.jpg")
	assert.Empty(t, none)

	name, key := ResolveAlbum(model.AlbumDirective{Mode: model.AlbumFixed, Name: "Vacation"}, "/photos/trip/a.jpg")
	assert.Equal(t, "Vacation", name)
	name2, key2 := ResolveAlbum(model.AlbumDirective{Mode: model.AlbumFixed, Name: "Vacation"}, "/other/b.jpg")
	assert.Equal(t, name, name2)
	assert.Equal(t, key, key2, "fixed mode ignores the file's location")
}

func TestResolveAlbumAuto(t *testing.T) {
	auto := model.AlbumDirective{Mode: model.AlbumAuto}

	// Same-named parent directories at different depths resolve to the
	// same display name but distinct cache keys.
	name1, key1 := ResolveAlbum(auto, filepath.Join("/data", "foo", "a.jpg"))
	name2, key2 := ResolveAlbum(auto, filepath.Join("/data", "foo", "bar", "b.jpg"))
	name3, key3 := ResolveAlbum(auto, filepath.Join("/data", "foo", "bar", "foo", "c.jpg"))

	assert.Equal(t, "foo", name1)
	assert.Equal(t, "bar", name2)
	assert.Equal(t, "foo", name3)
	assert.NotEqual(t, key1, key3)
	assert.NotEqual(t, key1, key2)

	// Files in the same directory share one key.
	_, key1b := ResolveAlbum(auto, filepath.Join("/data", "foo", "d.jpg"))
	assert.Equal(t, key1, key1b)
}

func TestAlbumCacheCreatesOnce(t *testing.T) {
	client := newFakeClient()
	cache := NewAlbumCache()
	ctx := context.Background()

	const n = 20
	keys := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key, err := cache.Assign(ctx, client, "Trip", "cache-key", fmt.Sprintf("media-%d", i))
			require.NoError(t, err)
			keys[i] = key
		}(i)
	}
	wg.Wait()

	require.Len(t, client.albums, 1, "album must be created exactly once")
	for _, k := range keys {
		assert.Equal(t, keys[0], k)
	}
	assert.Len(t, client.albums[keys[0]], n)
}

func TestAlbumCacheRetriesAfterFailedCreation(t *testing.T) {
	client := newFakeClient()
	client.createAlbumErr = &api.TransientError{Err: fmt.Errorf("boom")}
	cache := NewAlbumCache()
	ctx := context.Background()

	_, err := cache.Assign(ctx, client, "Trip", "cache-key", "media-1")
	require.Error(t, err)

	// The failed entry does not poison the cache: once the backend
	// recovers, the next requester creates the album.
	client.createAlbumErr = nil
	key, err := cache.Assign(ctx, client, "Trip", "cache-key", "media-2")
	require.NoError(t, err)
	assert.NotEmpty(t, key)
	assert.Equal(t, []string{"media-2"}, client.albums[key])
}

func TestAlbumCacheOverflowRollsOver(t *testing.T) {
	client := newFakeClient()
	cache := NewAlbumCache()
	ctx := context.Background()

	first, err := cache.Assign(ctx, client, "Trip", "cache-key", "media-1")
	require.NoError(t, err)

	// Simulate a full album instead of assigning 20000 items.
	cache.mu.Lock()
	cache.entries["cache-key"].count = api.AlbumItemLimit
	cache.mu.Unlock()

	second, err := cache.Assign(ctx, client, "Trip", "cache-key", "media-2")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{"media-2"}, client.albums[second])

	// Subsequent items land in the rollover album, not a third one.
	third, err := cache.Assign(ctx, client, "Trip", "cache-key", "media-3")
	require.NoError(t, err)
	assert.Equal(t, second, third)
	require.Len(t, client.albums, 2)
}

func TestAlbumCacheContextCancellation(t *testing.T) {
	client := newFakeClient()
	cache := NewAlbumCache()

	// Pre-populate an entry that never becomes ready.
	cache.mu.Lock()
	cache.entries["stuck"] = &albumEntry{ready: make(chan struct{})}
	cache.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Assign(ctx, client, "Trip", "stuck", "media-1")
	assert.ErrorIs(t, err, context.Canceled)
}
