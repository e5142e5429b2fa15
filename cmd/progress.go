package cmd

import (
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
	"github.com/xob0t/google-photos-mobile-client/pkg/uploader"
)

// progressObserver renders a single bar counting finished files, with byte
// throughput folded into the description. Events arrive from multiple
// workers concurrently.
type progressObserver struct {
	mu         sync.Mutex
	bar        *progressbar.ProgressBar
	sentByTask map[string]int64
	uploaded   int64
}

func newProgressObserver(total int) *progressObserver {
	return &progressObserver{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetDescription("uploading"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		),
		sentByTask: make(map[string]int64),
	}
}

func (p *progressObserver) TaskStateChanged(*model.UploadTask, model.UploadStatus) {}

func (p *progressObserver) TaskProgress(task *model.UploadTask, sent, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Offsets can move backwards when a session restarts; only count
	// forward progress towards the throughput figure.
	prev := p.sentByTask[task.Path]
	if sent > prev {
		p.uploaded += sent - prev
		p.sentByTask[task.Path] = sent
	}
	p.bar.Describe(fmt.Sprintf("uploading (%.1f MiB sent)", float64(p.uploaded)/(1<<20)))
}

func (p *progressObserver) TaskDone(task *model.UploadTask, outcome uploader.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sentByTask, task.Path)
	p.bar.Add(1)
}
