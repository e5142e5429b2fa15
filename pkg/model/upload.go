package model

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// UploadStatus represents the current state of a file in the upload pipeline.
type UploadStatus int

const (
	UploadStatusPending UploadStatus = iota
	UploadStatusHashing
	UploadStatusChecking
	UploadStatusSessionOpen
	UploadStatusTransferring
	UploadStatusFinalizing
	UploadStatusAssigningAlbum
	UploadStatusDone
	UploadStatusSkipped
	UploadStatusFailed
)

func (s UploadStatus) String() string {
	switch s {
	case UploadStatusPending:
		return "pending"
	case UploadStatusHashing:
		return "hashing"
	case UploadStatusChecking:
		return "checking"
	case UploadStatusSessionOpen:
		return "session open"
	case UploadStatusTransferring:
		return "transferring"
	case UploadStatusFinalizing:
		return "finalizing"
	case UploadStatusAssigningAlbum:
		return "assigning album"
	case UploadStatusDone:
		return "done"
	case UploadStatusSkipped:
		return "skipped"
	case UploadStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether a status is a final outcome for a file.
func (s UploadStatus) Terminal() bool {
	return s == UploadStatusDone || s == UploadStatusSkipped || s == UploadStatusFailed
}

// Quality selects the remote storage quality for an upload.
type Quality int

const (
	QualityOriginal Quality = iota
	QualitySaver
)

func (q Quality) String() string {
	if q == QualitySaver {
		return "saver"
	}
	return "original"
}

// Fingerprint is the SHA-1 content digest the remote service keys media by.
// Two files with identical bytes always produce the same fingerprint.
type Fingerprint []byte

func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f)
}

func (f Fingerprint) Base64() string {
	return base64.StdEncoding.EncodeToString(f)
}

// ParseFingerprint accepts a SHA-1 digest as a 40-char hex string or a
// standard base64 string and returns the raw fingerprint.
func ParseFingerprint(s string) (Fingerprint, error) {
	s = strings.TrimSpace(s)
	if len(s) == 40 {
		if b, err := hex.DecodeString(s); err == nil {
			return Fingerprint(b), nil
		}
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) != 20 {
		return nil, fmt.Errorf("invalid SHA-1 hash %q: want 40 hex chars or base64 of 20 bytes", s)
	}
	return Fingerprint(b), nil
}

// DedupKey returns the URL-safe base64 form used by trash and dedup RPCs.
func (f Fingerprint) DedupKey() string {
	s := base64.StdEncoding.EncodeToString(f)
	s = strings.ReplaceAll(s, "+", "-")
	s = strings.ReplaceAll(s, "/", "_")
	return strings.TrimRight(s, "=")
}

// UploadTask describes one file queued for upload. Tasks are created by the
// selector and album resolver, consumed exactly once by the coordinator, and
// immutable after creation.
type UploadTask struct {
	Path        string
	Size        int64
	Fingerprint Fingerprint // empty until hashed by the worker

	Quality     Quality
	UseQuota    bool
	ForceUpload bool

	// AlbumName is the resolved target album name, empty for none.
	// AlbumKey disambiguates same-named albums derived from different
	// parent directories in auto mode.
	AlbumName string
	AlbumKey  string
}

// UploadConfig contains configuration for an upload run.
type UploadConfig struct {
	Workers        int
	ChunkSize      int64
	MaxAttempts    int // attempts per network step before giving up
	RetryBaseDelay int // milliseconds, doubled per attempt

	Quality        Quality
	UseQuota       bool
	ForceUpload    bool
	DeleteFromHost bool
}

// Default configuration values.
const (
	DefaultWorkers     = 1
	DefaultChunkSize   = 8 * 1024 * 1024
	DefaultMaxAttempts = 4
	DefaultRetryDelay  = 500
)

// NewUploadConfig returns an UploadConfig with defaults applied.
func NewUploadConfig() UploadConfig {
	return UploadConfig{
		Workers:        DefaultWorkers,
		ChunkSize:      DefaultChunkSize,
		MaxAttempts:    DefaultMaxAttempts,
		RetryBaseDelay: DefaultRetryDelay,
	}
}
