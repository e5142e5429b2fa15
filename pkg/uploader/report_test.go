package uploader

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/google-photos-mobile-client/pkg/model"
)

func TestRunReportConcurrentRecord(t *testing.T) {
	const n = 50
	report := NewRunReport(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.UploadStatusDone
			switch i % 3 {
			case 1:
				status = model.UploadStatusSkipped
			case 2:
				status = model.UploadStatusFailed
			}
			report.Record(Outcome{
				Path:     fmt.Sprintf("/f/%d.jpg", i),
				Status:   status,
				MediaKey: fmt.Sprintf("media-%d", i),
			})
		}(i)
	}
	wg.Wait()
	report.Wait() // must not block once all outcomes are in

	done, skipped, failed := report.Counts()
	assert.Equal(t, n, done+skipped+failed)
	assert.Len(t, report.Snapshot(), n)
	assert.Len(t, report.MediaKeys(), n)
	assert.NotEmpty(t, report.RunID)
}

func TestRunReportEmptyRun(t *testing.T) {
	report := NewRunReport(0)
	report.Wait() // closed immediately
	done, skipped, failed := report.Counts()
	assert.Zero(t, done+skipped+failed)
}

func TestRunReportSnapshotOrder(t *testing.T) {
	report := NewRunReport(3)
	report.Record(Outcome{Path: "a", Status: model.UploadStatusDone, MediaKey: "m1"})
	report.Record(Outcome{Path: "b", Status: model.UploadStatusFailed})
	report.Record(Outcome{Path: "c", Status: model.UploadStatusSkipped, MediaKey: "m2"})

	snap := report.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "a", snap[0].Path)
	assert.Equal(t, "b", snap[1].Path)
	assert.Equal(t, "c", snap[2].Path)

	// Failed files never appear in the media key map.
	keys := report.MediaKeys()
	assert.Equal(t, map[string]string{"a": "m1", "c": "m2"}, keys)
}
