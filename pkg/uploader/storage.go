package uploader

import "github.com/xob0t/google-photos-mobile-client/pkg/model"

// Cache is the local fingerprint → media key store consulted before the
// remote duplicate check. A nil Cache disables local lookups.
type Cache interface {
	GetMediaKey(fp model.Fingerprint) (string, error)
	PutMediaKey(fp model.Fingerprint, mediaKey string) error
}
