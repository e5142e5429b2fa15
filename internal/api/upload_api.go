package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// UploadSession is the resumable-upload state for one file: the server-side
// handle plus the committed byte offset. It is owned by exactly one worker
// and never shared.
type UploadSession struct {
	ID     string // server upload handle
	Size   int64  // total byte length declared at session open
	Offset int64  // bytes committed so far
}

// Complete reports whether every byte has been committed.
func (s *UploadSession) Complete() bool {
	return s.Offset >= s.Size
}

// FindMediaByHash asks the library for an existing media item with the given
// raw SHA-1 digest. It returns the media key, or "" when the hash is unknown.
func (c *Client) FindMediaByHash(ctx context.Context, sha1 []byte) (string, error) {
	body := message{
		1: message{1: message{1: sha1}, 2: message{}},
	}
	resp, err := c.callRPC(ctx, pathFindByHash, body)
	if err != nil {
		return "", err
	}
	return digString(resp, 1, 2, 2, 1), nil
}

// NewUploadSession opens a resumable upload session for a file of the given
// size. The declared hash lets the server reject mismatched content at
// finalize time.
func (c *Client) NewUploadSession(ctx context.Context, hashB64 string, size int64) (*UploadSession, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	body := message{1: 2, 2: 2, 3: 1, 4: 3, 7: size}

	resp, err := c.upload.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-protobuf").
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("X-Goog-Hash", "sha1="+hashB64).
		SetHeader("X-Upload-Content-Length", strconv.FormatInt(size, 10)).
		SetBody(body.marshal()).
		Post(c.uploadEndpoint)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), resp.String())
	}

	id := resp.Header().Get("X-GUploader-UploadID")
	if id == "" {
		return nil, &ProtocolError{Op: "session open", Err: fmt.Errorf("response carries no upload handle")}
	}
	return &UploadSession{ID: id, Size: size}, nil
}

// UploadChunk sends the next chunk starting at the session's committed
// offset. On an intermediate chunk the server answers 308 and the offset
// advances; on the final chunk the server returns the commit blob needed by
// FinalizeUpload. The session offset is only advanced after the server
// acknowledged the bytes.
func (c *Client) UploadChunk(ctx context.Context, s *UploadSession, chunk io.Reader, n int64) ([]byte, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	last := s.Offset+n >= s.Size
	contentRange := fmt.Sprintf("bytes %d-%d/%d", s.Offset, s.Offset+n-1, s.Size)

	resp, err := c.upload.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Content-Length", strconv.FormatInt(n, 10)).
		SetHeader("Content-Range", contentRange).
		SetBody(chunk).
		Put(c.uploadEndpoint + "?upload_id=" + s.ID)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusPermanentRedirect: // 308: chunk committed, more expected
		s.Offset += n
		if last {
			return nil, &ProtocolError{Op: "chunk upload", Err: fmt.Errorf("server expects more data after final chunk")}
		}
		return nil, nil
	case code == http.StatusOK || code == http.StatusCreated:
		s.Offset += n
		if !last {
			return nil, &ProtocolError{Op: "chunk upload", Err: fmt.Errorf("server finalized before all bytes were sent")}
		}
		return resp.Body(), nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return nil, ErrSessionExpired
	default:
		return nil, statusError(code, resp.String())
	}
}

// QueryOffset asks the server how many bytes of the session are committed,
// used to resume after a transient failure mid-transfer. When the server
// already holds every byte it answers with the session finalized; the
// returned blob is then the commit body the final chunk's lost response
// would have carried, and the caller must not send further chunks.
func (c *Client) QueryOffset(ctx context.Context, s *UploadSession) (offset int64, blob []byte, err error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	resp, err := c.upload.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Content-Range", fmt.Sprintf("bytes */%d", s.Size)).
		Put(c.uploadEndpoint + "?upload_id=" + s.ID)
	if err != nil {
		return 0, nil, wrapTransportErr(err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusPermanentRedirect:
		offset, err = parseRangeEnd(resp.Header().Get("Range"))
		return offset, nil, err
	case code == http.StatusOK || code == http.StatusCreated:
		return s.Size, resp.Body(), nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return 0, nil, ErrSessionExpired
	default:
		return 0, nil, statusError(code, resp.String())
	}
}

// parseRangeEnd extracts the committed offset from a "Range: bytes=0-N"
// header. An absent header means no bytes were committed.
func parseRangeEnd(h string) (int64, error) {
	if h == "" {
		return 0, nil
	}
	_, end, ok := strings.Cut(h, "-")
	if !ok {
		return 0, &ProtocolError{Op: "offset query", Err: fmt.Errorf("malformed Range header %q", h)}
	}
	last, err := strconv.ParseInt(end, 10, 64)
	if err != nil {
		return 0, &ProtocolError{Op: "offset query", Err: fmt.Errorf("malformed Range header %q", h)}
	}
	return last + 1, nil
}

// CommitMeta carries the finalize parameters for one media item.
type CommitMeta struct {
	FileName  string
	SHA1      []byte
	Timestamp int64 // seconds since epoch; capture time when known
	Saver     bool  // storage-saver quality
	UseQuota  bool  // count against storage quota
}

// deviceModel picks the device identity the commit is attributed to. The
// service derives quality and quota accounting from the claimed hardware.
func (m CommitMeta) deviceModel() string {
	switch {
	case m.UseQuota:
		return "Pixel 8"
	case m.Saver:
		return "Pixel 2"
	default:
		return "Pixel XL"
	}
}

func (m CommitMeta) qualityCode() int {
	if m.Saver {
		return 1
	}
	return 3
}

// FinalizeUpload commits a fully transferred session, converting it into a
// durable media item. commitBlob is the body returned by the final
// UploadChunk call. The returned media key addresses the item remotely.
func (c *Client) FinalizeUpload(ctx context.Context, commitBlob []byte, meta CommitMeta) (string, error) {
	ts := meta.Timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}

	body := message{
		1: message{
			1:  commitBlob,
			2:  meta.FileName,
			3:  meta.SHA1,
			4:  message{1: ts, 2: 46000000},
			7:  meta.qualityCode(),
			8:  commitStateTemplate(),
			10: 1,
			17: 0,
		},
		2: message{3: meta.deviceModel(), 4: "Google", 5: 28},
		3: []byte{1, 3},
	}

	resp, err := c.callRPC(ctx, pathCommit, body)
	if err != nil {
		return "", err
	}

	mediaKey := digString(resp, 1, 3, 1)
	if mediaKey == "" {
		return "", &ProtocolError{Op: "finalize", Err: fmt.Errorf("upload rejected: response carries no media key")}
	}
	return mediaKey, nil
}

// commitStateTemplate is the client-state block the mobile app attaches to
// every commit. Field presence matters to the server, values do not.
func commitStateTemplate() message {
	return message{
		1: message{
			1: "", 3: "", 4: "",
			5:  message{1: "", 2: "", 3: "", 4: "", 5: "", 7: ""},
			6:  "",
			7:  message{2: ""},
			15: "", 16: "", 17: "", 19: "", 20: "",
			21: message{5: message{3: ""}, 6: ""},
			25: "",
			30: message{2: ""},
			31: "", 32: "",
			33: message{1: ""},
			34: "", 36: "", 37: "", 38: "", 39: "", 40: "", 41: "",
		},
		5: message{
			2: message{
				2: message{3: message{2: ""}, 4: message{2: ""}},
				4: message{2: message{2: 1}},
				5: message{2: ""},
				6: 1,
			},
			3: message{
				2: message{3: "", 4: ""},
				3: message{2: "", 3: message{2: 1}},
				4: "",
				5: message{2: message{2: 1}},
				7: "",
			},
			4: message{2: message{2: ""}},
			5: message{
				1: message{
					2: message{3: "", 4: ""},
					3: message{2: "", 3: message{2: 1}},
				},
				3: 1,
			},
		},
		8: "",
		9: message{
			2: "",
			3: message{1: "", 2: ""},
			4: message{
				1: message{
					3: message{1: message{
						1: message{5: message{1: ""}, 6: ""},
						2: "",
						3: message{1: message{5: message{1: ""}, 6: ""}, 2: ""},
					}},
					4: message{1: message{2: ""}},
				},
			},
		},
		11: message{2: "", 3: "", 4: message{2: message{1: 1, 2: 2}}},
		12: "",
		14: message{2: "", 3: "", 4: message{2: message{1: 1, 2: 2}}},
		15: message{1: "", 4: ""},
		17: message{1: "", 4: ""},
		19: message{2: "", 3: "", 4: message{2: message{1: 1, 2: 2}}},
		22: "",
		23: "",
	}
}
