package uploader

import (
	"sync"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

// Observer receives pipeline events. The coordinator notifies it on every
// state transition so both the CLI and library consumers can render
// progress without the core knowing about display.
type Observer interface {
	TaskStateChanged(task *model.UploadTask, state model.UploadStatus)
	TaskProgress(task *model.UploadTask, sent, total int64)
	TaskDone(task *model.UploadTask, outcome Outcome)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) TaskStateChanged(*model.UploadTask, model.UploadStatus) {}
func (NopObserver) TaskProgress(*model.UploadTask, int64, int64)           {}
func (NopObserver) TaskDone(*model.UploadTask, Outcome)                    {}

// ProgressTracker is an Observer that keeps live counters for display.
type ProgressTracker struct {
	mu            sync.RWMutex
	totalFiles    int
	completed     int
	failed        int
	skipped       int
	uploadedBytes int64
	sentByTask    map[string]int64
}

// NewProgressTracker creates a tracker for a run of totalFiles files.
func NewProgressTracker(totalFiles int) *ProgressTracker {
	return &ProgressTracker{
		totalFiles: totalFiles,
		sentByTask: make(map[string]int64),
	}
}

func (p *ProgressTracker) TaskStateChanged(*model.UploadTask, model.UploadStatus) {}

func (p *ProgressTracker) TaskProgress(task *model.UploadTask, sent, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.sentByTask[task.Path]
	if sent > prev {
		p.uploadedBytes += sent - prev
		p.sentByTask[task.Path] = sent
	}
}

func (p *ProgressTracker) TaskDone(task *model.UploadTask, outcome Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sentByTask, task.Path)
	switch outcome.Status {
	case model.UploadStatusDone:
		p.completed++
	case model.UploadStatusSkipped:
		p.skipped++
	case model.UploadStatusFailed:
		p.failed++
	}
}

// Stats returns the current counters.
func (p *ProgressTracker) Stats() (completed, failed, skipped, total int, uploadedBytes int64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.completed, p.failed, p.skipped, p.totalFiles, p.uploadedBytes
}
