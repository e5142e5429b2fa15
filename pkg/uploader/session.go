package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xob0t/google-photos-mobile-client/internal/api"
	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

// uploadOne drives a single task through the upload state machine:
// duplicate check, session open, chunked transfer, finalize. Album
// assignment and host deletion are handled by the caller because their
// failure does not change the upload outcome.
func (u *Uploader) uploadOne(ctx context.Context, task *model.UploadTask) Outcome {
	outcome := Outcome{Path: task.Path}

	fp := task.Fingerprint
	if len(fp) == 0 {
		u.observer.TaskStateChanged(task, model.UploadStatusHashing)
		var err error
		if fp, err = ComputeFingerprint(task.Path); err != nil {
			outcome.Status, outcome.Err = model.UploadStatusFailed, err
			return outcome
		}
	}
	outcome.Fingerprint = fp

	if !task.ForceUpload {
		u.observer.TaskStateChanged(task, model.UploadStatusChecking)

		if u.cache != nil {
			if key, err := u.cache.GetMediaKey(fp); err == nil && key != "" {
				outcome.Status, outcome.MediaKey = model.UploadStatusSkipped, key
				return outcome
			}
		}

		var remoteKey string
		err := withRetry(ctx, u.retry, func() error {
			var err error
			remoteKey, err = u.client.FindMediaByHash(ctx, fp)
			return err
		})
		if err != nil {
			outcome.Status, outcome.Err = model.UploadStatusFailed, err
			return outcome
		}
		if remoteKey != "" {
			u.storeMediaKey(fp, remoteKey)
			outcome.Status, outcome.MediaKey = model.UploadStatusSkipped, remoteKey
			return outcome
		}
	}

	// An auth failure elsewhere in the run stops new sessions from being
	// opened; files already transferring run to their own outcome.
	if u.halted() {
		outcome.Status = model.UploadStatusFailed
		outcome.Err = fmt.Errorf("run aborted: %w", u.fatalErr())
		return outcome
	}

	commitBlob, err := u.transferWithRestart(ctx, task, fp)
	if err != nil {
		outcome.Status, outcome.Err = model.UploadStatusFailed, err
		return outcome
	}

	u.observer.TaskStateChanged(task, model.UploadStatusFinalizing)
	meta := api.CommitMeta{
		FileName:  filepath.Base(task.Path),
		SHA1:      fp,
		Timestamp: captureTime(task.Path),
		Saver:     task.Quality == model.QualitySaver,
		UseQuota:  task.UseQuota,
	}
	var mediaKey string
	err = withRetry(ctx, u.retry, func() error {
		var err error
		mediaKey, err = u.client.FinalizeUpload(ctx, commitBlob, meta)
		return err
	})
	if err != nil {
		outcome.Status, outcome.Err = model.UploadStatusFailed, err
		return outcome
	}

	u.storeMediaKey(fp, mediaKey)
	outcome.Status, outcome.MediaKey = model.UploadStatusDone, mediaKey
	return outcome
}

// transferWithRestart opens a session and streams the file. If the session
// handle itself is rejected mid-transfer the whole session is restarted
// from byte zero, a bounded number of times; transient failures inside a
// session resume from the committed offset instead.
func (u *Uploader) transferWithRestart(ctx context.Context, task *model.UploadTask, fp model.Fingerprint) ([]byte, error) {
	var lastErr error
	for restart := 0; restart < u.retry.maxAttempts; restart++ {
		u.observer.TaskStateChanged(task, model.UploadStatusSessionOpen)

		var session *api.UploadSession
		err := withRetry(ctx, u.retry, func() error {
			var err error
			session, err = u.client.NewUploadSession(ctx, fp.Base64(), task.Size)
			return err
		})
		if err != nil {
			return nil, err
		}

		blob, err := u.transfer(ctx, task, session)
		if err == nil {
			return blob, nil
		}
		if !errors.Is(err, api.ErrSessionExpired) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// transfer streams the file into an open session chunk by chunk. The
// session offset only moves on server acknowledgement, so a transient
// failure resumes from the last committed offset after querying the server.
func (u *Uploader) transfer(ctx context.Context, task *model.UploadTask, session *api.UploadSession) ([]byte, error) {
	f, err := os.Open(task.Path)
	if err != nil {
		return nil, &LocalIOError{Path: task.Path, Err: err}
	}
	defer f.Close()

	u.observer.TaskStateChanged(task, model.UploadStatusTransferring)

	chunkSize := u.chunkSize
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := min(chunkSize, session.Size-session.Offset)
		if _, err := f.Seek(session.Offset, io.SeekStart); err != nil {
			return nil, &LocalIOError{Path: task.Path, Err: err}
		}

		blob, err := u.client.UploadChunk(ctx, session, io.LimitReader(f, n), n)
		if err == nil {
			failures = 0
			u.observer.TaskProgress(task, session.Offset, session.Size)
			if session.Complete() {
				return blob, nil
			}
			continue
		}

		if !api.IsTransient(err) && !api.IsProtocol(err) {
			return nil, err
		}
		failures++
		if failures >= u.retry.maxAttempts {
			return nil, err
		}
		if err := u.retry.sleep(ctx, failures-1); err != nil {
			return nil, err
		}

		// Re-sync with the server's committed offset before resending.
		offset, blob, qerr := u.client.QueryOffset(ctx, session)
		if qerr != nil {
			if api.IsTransient(qerr) {
				continue
			}
			return nil, qerr
		}
		session.Offset = offset

		// The failed chunk may have committed server-side. If it was the
		// last one the session is already finalized and the query reply
		// carries the commit body the lost response would have had.
		if session.Complete() {
			u.observer.TaskProgress(task, session.Offset, session.Size)
			if len(blob) == 0 {
				return nil, &api.ProtocolError{Op: "offset query", Err: errors.New("completed session carries no commit body")}
			}
			return blob, nil
		}
	}
}

func (u *Uploader) storeMediaKey(fp model.Fingerprint, key string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.PutMediaKey(fp, key); err != nil {
		u.logger.Warn("failed to record media key in local cache", "error", err)
	}
}
