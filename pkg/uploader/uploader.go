package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/xob0t/google-photos-mobile-client/internal/api"
	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

// Uploader schedules upload tasks across a fixed pool of workers and drives
// each through the session state machine to a terminal outcome.
type Uploader struct {
	client   Client
	cache    Cache
	observer Observer
	logger   *slog.Logger
	config   model.UploadConfig

	retry     retryPolicy
	chunkSize int64
	albums    *AlbumCache

	fatalMu sync.Mutex
	fatal   error
}

// Options carries the optional collaborators of an Uploader.
type Options struct {
	Cache    Cache    // nil disables the local media-key cache
	Observer Observer // nil means no notifications
	Logger   *slog.Logger
}

// New creates an Uploader. The client is required.
func New(client Client, config model.UploadConfig, opts Options) *Uploader {
	observer := opts.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Workers <= 0 {
		config.Workers = model.DefaultWorkers
	}
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = model.DefaultChunkSize
	}
	return &Uploader{
		client:    client,
		cache:     opts.Cache,
		observer:  observer,
		logger:    logger,
		config:    config,
		chunkSize: chunkSize,
		retry: retryPolicy{
			maxAttempts: config.MaxAttempts,
			baseDelay:   time.Duration(config.RetryBaseDelay) * time.Millisecond,
		}.normalize(),
		albums: NewAlbumCache(),
	}
}

// BuildTasks turns selected file paths into immutable upload tasks, with
// the album directive resolved per file. Files that cannot be stat'ed still
// get a task so the report enumerates every input exactly once.
func (u *Uploader) BuildTasks(files []string, directive model.AlbumDirective) []*model.UploadTask {
	tasks := make([]*model.UploadTask, 0, len(files))
	for _, path := range files {
		size := int64(-1)
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		} else {
			u.logger.Warn("cannot stat file, it will be reported as failed", "path", path, "error", err)
		}

		name, key := ResolveAlbum(directive, path)
		tasks = append(tasks, &model.UploadTask{
			Path:        path,
			Size:        size,
			Quality:     u.config.Quality,
			UseQuota:    u.config.UseQuota,
			ForceUpload: u.config.ForceUpload,
			AlbumName:   name,
			AlbumKey:    key,
		})
	}
	return tasks
}

// Run consumes the task list with the configured number of workers and
// blocks until every task reached a terminal outcome. The returned error is
// the run-level fatal condition (invalid credentials), if any; per-file
// errors live in the report.
func (u *Uploader) Run(ctx context.Context, tasks []*model.UploadTask) (*RunReport, error) {
	report := NewRunReport(len(tasks))

	queue := make(chan *model.UploadTask, len(tasks))
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < u.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.worker(ctx, queue, report)
		}()
	}
	wg.Wait()

	return report, u.fatalErr()
}

// worker pulls tasks off the shared queue until it is drained. The queue is
// consumed exactly once, so no task can run twice regardless of pool size.
func (u *Uploader) worker(ctx context.Context, queue <-chan *model.UploadTask, report *RunReport) {
	for task := range queue {
		var outcome Outcome
		switch {
		case ctx.Err() != nil:
			outcome = Outcome{
				Path:   task.Path,
				Status: model.UploadStatusFailed,
				Err:    fmt.Errorf("not attempted: %w", ctx.Err()),
			}
		case u.halted():
			outcome = Outcome{
				Path:   task.Path,
				Status: model.UploadStatusFailed,
				Err:    fmt.Errorf("not attempted, run aborted: %w", u.fatalErr()),
			}
		default:
			outcome = u.process(ctx, task)
		}

		u.observer.TaskDone(task, outcome)
		report.Record(outcome)
	}
}

// process runs one task to a terminal outcome: the upload state machine,
// then album assignment and optional host deletion for stored media.
func (u *Uploader) process(ctx context.Context, task *model.UploadTask) Outcome {
	if task.Size < 0 {
		return Outcome{
			Path:   task.Path,
			Status: model.UploadStatusFailed,
			Err:    &LocalIOError{Path: task.Path, Err: fmt.Errorf("file is not readable")},
		}
	}
	if task.Size == 0 {
		return Outcome{
			Path:   task.Path,
			Status: model.UploadStatusFailed,
			Err:    &LocalIOError{Path: task.Path, Err: fmt.Errorf("file is empty")},
		}
	}

	outcome := u.uploadOne(ctx, task)
	if outcome.Err != nil {
		if api.IsAuth(outcome.Err) {
			u.setFatal(outcome.Err)
		}
		return outcome
	}

	// Duplicates are assigned to albums too: the media is stored remotely
	// either way. Album failure does not demote the upload outcome.
	if task.AlbumName != "" && outcome.MediaKey != "" {
		u.observer.TaskStateChanged(task, model.UploadStatusAssigningAlbum)
		albumKey, err := u.albums.Assign(ctx, u.client, task.AlbumName, task.AlbumKey, outcome.MediaKey)
		if err != nil {
			if api.IsAuth(err) {
				u.setFatal(err)
			}
			outcome.AlbumErr = err
			u.logger.Warn("album assignment failed",
				"path", task.Path, "album", task.AlbumName, "error", err)
		} else {
			outcome.AlbumKey = albumKey
		}
	}

	if u.config.DeleteFromHost && outcome.MediaKey != "" {
		if err := os.Remove(task.Path); err != nil {
			u.logger.Warn("failed to delete uploaded file from host", "path", task.Path, "error", err)
		} else {
			u.logger.Info("deleted from host", "path", task.Path)
		}
	}

	return outcome
}

func (u *Uploader) setFatal(err error) {
	u.fatalMu.Lock()
	defer u.fatalMu.Unlock()
	if u.fatal == nil {
		u.fatal = err
	}
}

func (u *Uploader) halted() bool {
	return u.fatalErr() != nil
}

func (u *Uploader) fatalErr() error {
	u.fatalMu.Lock()
	defer u.fatalMu.Unlock()
	return u.fatal
}
