package uploader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

// Extensions the service accepts as media. Mirrors the image/video mime
// gate of the mobile client.
var mediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".heic": true, ".heif": true,
	".tiff": true, ".tif": true, ".avif": true, ".raw": true, ".dng": true,
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true,
	".webm": true, ".m4v": true, ".3gp": true, ".mts": true, ".m2ts": true,
}

// IsMediaFile reports whether a path has a supported image or video extension.
func IsMediaFile(p string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(p))]
}

// SelectFiles enumerates upload candidates under root and applies the
// configured filter. A file root yields at most itself; a directory root
// yields its immediate children, or all descendants when recursive is set.
// Symlinks and unreadable entries are skipped with a warning.
func SelectFiles(root string, cfg model.SelectorConfig, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Lstat(root)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", root, err)
	}

	if !info.IsDir() {
		if !IsMediaFile(root) {
			return nil, fmt.Errorf("%q is not a supported image or video file", root)
		}
		if !keepFile(cfg.Filter, root) {
			return nil, nil
		}
		return []string{root}, nil
	}

	var files []string
	collect := func(p string, d fs.DirEntry) {
		if d.Type()&fs.ModeSymlink != 0 {
			logger.Warn("skipping symlink", "path", p)
			return
		}
		if !d.Type().IsRegular() || !IsMediaFile(p) {
			return
		}
		if keepFile(cfg.Filter, p) {
			files = append(files, p)
		}
	}

	if cfg.Recursive {
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				logger.Warn("skipping unreadable entry", "path", p, "error", walkErr)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			collect(p, d)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", root, err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read directory %q: %w", root, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			collect(filepath.Join(root, entry.Name()), entry)
		}
	}

	return files, nil
}

// keepFile evaluates the include/exclude filter for one candidate:
// kept iff (matches XOR exclude).
func keepFile(f model.FilterConfig, p string) bool {
	if !f.Enabled() {
		return true
	}
	return matchesFilter(f, p) != f.Exclude
}

func matchesFilter(f model.FilterConfig, p string) bool {
	target := p
	if !f.MatchPath {
		target = filepath.Base(p)
	}

	expr := f.Expression
	if f.IgnoreCase {
		target = strings.ToLower(target)
		expr = strings.ToLower(expr)
	}

	if f.Kind == model.PatternGlob {
		// Match on slash-separated form so patterns behave the same on
		// every platform. A malformed pattern matches nothing.
		ok, err := path.Match(expr, filepath.ToSlash(target))
		return err == nil && ok
	}
	return strings.Contains(target, expr)
}
