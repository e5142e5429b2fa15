package uploader

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	sort.Strings(out)
	return out
}

func TestSelectFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.png", "notes.txt", "sub/c.jpg", "sub/d.txt")

	files, err := SelectFiles(dir, model.SelectorConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png"}, baseNames(files))

	files, err = SelectFiles(dir, model.SelectorConfig{Recursive: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png", "c.jpg"}, baseNames(files))
}

func TestSelectFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "notes.txt")

	files, err := SelectFiles(filepath.Join(dir, "a.jpg"), model.SelectorConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpg")}, files)

	_, err = SelectFiles(filepath.Join(dir, "notes.txt"), model.SelectorConfig{}, nil)
	assert.Error(t, err)

	_, err = SelectFiles(filepath.Join(dir, "missing.jpg"), model.SelectorConfig{}, nil)
	assert.Error(t, err)
}

func TestSelectFilesGlobFilter(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.jpg", "a.png")

	include := model.SelectorConfig{Filter: model.FilterConfig{
		Expression: "*.jpg",
		Kind:       model.PatternGlob,
	}}
	files, err := SelectFiles(dir, include, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, baseNames(files))

	exclude := include
	exclude.Filter.Exclude = true
	files, err = SelectFiles(dir, exclude, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, baseNames(files))
}

func TestSelectFilesSubstringFilter(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "IMG_0001.jpg", "IMG_0002.jpg", "vid.mp4")

	files, err := SelectFiles(dir, model.SelectorConfig{Filter: model.FilterConfig{
		Expression: "img",
		IgnoreCase: true,
	}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"IMG_0001.jpg", "IMG_0002.jpg"}, baseNames(files))

	// Case-sensitive by default.
	files, err = SelectFiles(dir, model.SelectorConfig{Filter: model.FilterConfig{
		Expression: "img",
	}}, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSelectFilesMatchPath(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "vacation/a.jpg", "work/b.jpg")

	files, err := SelectFiles(dir, model.SelectorConfig{
		Recursive: true,
		Filter:    model.FilterConfig{Expression: "vacation", MatchPath: true},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, baseNames(files))

	// Same expression against base names only: nothing matches.
	files, err = SelectFiles(dir, model.SelectorConfig{
		Recursive: true,
		Filter:    model.FilterConfig{Expression: "vacation"},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSelectFilesMalformedGlob(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg")

	// A malformed pattern matches nothing rather than erroring.
	files, err := SelectFiles(dir, model.SelectorConfig{Filter: model.FilterConfig{
		Expression: "[",
		Kind:       model.PatternGlob,
	}}, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSelectFilesSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg")
	if err := os.Symlink(filepath.Join(dir, "a.jpg"), filepath.Join(dir, "link.jpg")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := SelectFiles(dir, model.SelectorConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, baseNames(files))
}

func TestIsMediaFile(t *testing.T) {
	assert.True(t, IsMediaFile("photo.JPG"))
	assert.True(t, IsMediaFile("/tmp/clip.mp4"))
	assert.True(t, IsMediaFile("raw.DNG"))
	assert.False(t, IsMediaFile("doc.pdf"))
	assert.False(t, IsMediaFile("noext"))
}
