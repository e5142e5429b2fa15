package uploader

import (
	"crypto/sha1"
	"io"
	"os"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

// ComputeFingerprint streams a file through SHA-1 and returns the content
// fingerprint the remote duplicate check is keyed by. The digest depends
// only on file bytes, never on name or metadata.
func ComputeFingerprint(path string) (model.Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LocalIOError{Path: path, Err: err}
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, &LocalIOError{Path: path, Err: err}
	}
	return model.Fingerprint(h.Sum(nil)), nil
}
