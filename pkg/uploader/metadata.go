package uploader

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// captureTime returns the best-known creation time of a media file in unix
// seconds: the EXIF capture timestamp when present, otherwise the file's
// modification time. The finalize call attributes the media item to this
// moment.
func captureTime(path string) int64 {
	info, statErr := os.Stat(path)

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if data, err := exif.Decode(f); err == nil {
			if dt, err := data.DateTime(); err == nil {
				return dt.Unix()
			}
		}
	}

	if statErr == nil {
		return info.ModTime().Unix()
	}
	return 0
}
