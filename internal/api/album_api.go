package api

import (
	"context"
	"fmt"
	"time"
)

// Batch limits enforced by the service.
const (
	albumBatchSize = 500   // media keys per album RPC
	AlbumItemLimit = 20000 // media items per album
	trashBatchSize = 500   // dedup keys per trash RPC
)

// CreateAlbum creates a new album containing the given media items and
// returns the album's media key. At most albumBatchSize keys may be passed;
// add the remainder with AddMediaToAlbum.
func (c *Client) CreateAlbum(ctx context.Context, albumName string, mediaKeys []string) (string, error) {
	if len(mediaKeys) > albumBatchSize {
		return "", fmt.Errorf("create album: %d keys exceed batch limit %d", len(mediaKeys), albumBatchSize)
	}

	items := make([]any, 0, len(mediaKeys))
	for _, key := range mediaKeys {
		items = append(items, message{1: message{1: key}})
	}

	body := message{
		1: albumName,
		2: time.Now().Unix(),
		3: 1,
		4: items,
		6: message{},
		7: message{1: 3},
		8: message{3: "Pixel XL", 4: "Google", 5: 28},
	}

	resp, err := c.callRPC(ctx, pathCreateAlbum, body)
	if err != nil {
		return "", err
	}

	albumKey := digString(resp, 1, 1)
	if albumKey == "" {
		return "", &ProtocolError{Op: "create album", Err: fmt.Errorf("response carries no album key")}
	}
	return albumKey, nil
}

// AddMediaToAlbum adds media items to an existing album. Key slices larger
// than the service batch limit are split automatically.
func (c *Client) AddMediaToAlbum(ctx context.Context, albumKey string, mediaKeys []string) error {
	for start := 0; start < len(mediaKeys); start += albumBatchSize {
		end := min(start+albumBatchSize, len(mediaKeys))

		body := message{
			1: toAnySlice(mediaKeys[start:end]),
			2: albumKey,
			5: message{1: 2},
			6: message{3: "Pixel XL", 4: "Google", 5: 28},
			7: time.Now().Unix(),
		}
		if _, err := c.callRPC(ctx, pathAddToAlbum, body); err != nil {
			return err
		}
	}
	return nil
}

// MoveToTrash moves remote media to the trash, addressed by URL-safe base64
// dedup keys. Batches are split to stay under the service limit.
func (c *Client) MoveToTrash(ctx context.Context, dedupKeys []string) error {
	for start := 0; start < len(dedupKeys); start += trashBatchSize {
		end := min(start+trashBatchSize, len(dedupKeys))

		body := message{
			2: 1,
			3: toAnySlice(dedupKeys[start:end]),
			4: 1,
			8: message{4: message{2: message{}, 3: message{1: message{}}, 4: message{}, 5: message{1: message{}}}},
			9: message{1: 5, 2: message{1: 49029607, 2: "28"}},
		}
		if _, err := c.callRPC(ctx, pathMoveToTrash, body); err != nil {
			return err
		}
	}
	return nil
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
