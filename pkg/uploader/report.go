package uploader

import (
	"sync"

	"github.com/google/uuid"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

// Outcome is the terminal result for one input file.
type Outcome struct {
	Path        string
	Status      model.UploadStatus // Done, Skipped or Failed
	Fingerprint model.Fingerprint
	MediaKey    string
	AlbumKey    string
	AlbumErr    error // album assignment failed after a successful upload
	Err         error
}

// RunReport collects per-file outcomes for a run. It is append-only and
// safe for concurrent writers; insertion order is preserved for display.
type RunReport struct {
	RunID string

	mu      sync.Mutex
	done    chan struct{}
	pending int
	entries []Outcome
}

// NewRunReport creates a report expecting exactly total outcomes.
func NewRunReport(total int) *RunReport {
	r := &RunReport{
		RunID:   uuid.NewString(),
		done:    make(chan struct{}),
		pending: total,
		entries: make([]Outcome, 0, total),
	}
	if total == 0 {
		close(r.done)
	}
	return r
}

// Record appends one terminal outcome.
func (r *RunReport) Record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, o)
	r.pending--
	if r.pending == 0 {
		close(r.done)
	}
}

// Snapshot returns a copy of the outcomes recorded so far, in insertion
// order. Safe to call while the run is in flight.
func (r *RunReport) Snapshot() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.entries))
	copy(out, r.entries)
	return out
}

// Wait blocks until every expected outcome has been recorded.
func (r *RunReport) Wait() {
	<-r.done
}

// Counts returns the number of uploaded, skipped and failed files so far.
func (r *RunReport) Counts() (done, skipped, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		switch e.Status {
		case model.UploadStatusDone:
			done++
		case model.UploadStatusSkipped:
			skipped++
		case model.UploadStatusFailed:
			failed++
		}
	}
	return done, skipped, failed
}

// MediaKeys returns path → media key for every file that ended up stored
// remotely, whether freshly uploaded or already present.
func (r *RunReport) MediaKeys() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make(map[string]string)
	for _, e := range r.entries {
		if e.MediaKey != "" {
			keys[e.Path] = e.MediaKey
		}
	}
	return keys
}
