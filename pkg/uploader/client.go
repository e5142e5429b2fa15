package uploader

import (
	"context"
	"io"

	"github.com/xob0t/google-photos-mobile-client/internal/api"
)

// Client is the slice of the remote API the uploader drives. *api.Client
// satisfies it; tests substitute fakes.
type Client interface {
	FindMediaByHash(ctx context.Context, sha1 []byte) (string, error)
	NewUploadSession(ctx context.Context, hashB64 string, size int64) (*api.UploadSession, error)
	UploadChunk(ctx context.Context, s *api.UploadSession, chunk io.Reader, n int64) ([]byte, error)
	QueryOffset(ctx context.Context, s *api.UploadSession) (int64, []byte, error)
	FinalizeUpload(ctx context.Context, commitBlob []byte, meta api.CommitMeta) (string, error)
	CreateAlbum(ctx context.Context, albumName string, mediaKeys []string) (string, error)
	AddMediaToAlbum(ctx context.Context, albumKey string, mediaKeys []string) error
}

var _ Client = (*api.Client)(nil)
