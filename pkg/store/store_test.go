package store

import (
	"crypto/sha1"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

func TestStorePutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	sum := sha1.Sum([]byte("some media"))
	fp := model.Fingerprint(sum[:])

	// Miss returns "" without error.
	key, err := s.GetMediaKey(fp)
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, s.PutMediaKey(fp, "media-key-1"))
	key, err = s.GetMediaKey(fp)
	require.NoError(t, err)
	assert.Equal(t, "media-key-1", key)

	// Overwrite wins.
	require.NoError(t, s.PutMediaKey(fp, "media-key-2"))
	key, err = s.GetMediaKey(fp)
	require.NoError(t, err)
	assert.Equal(t, "media-key-2", key)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	sum := sha1.Sum([]byte("durable"))
	fp := model.Fingerprint(sum[:])

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.PutMediaKey(fp, "media-key"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	key, err := s.GetMediaKey(fp)
	require.NoError(t, err)
	assert.Equal(t, "media-key", key)
}

func TestDefaultPathPerAccount(t *testing.T) {
	a, err := DefaultPath("a@gmail.com")
	require.NoError(t, err)
	b, err := DefaultPath("b@gmail.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "a@gmail.com")
}
