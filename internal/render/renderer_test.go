package render

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetstat/fleetstat/internal/logger"
	"github.com/fleetstat/fleetstat/internal/status"
)

func testSnapshot() []status.Entry {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []status.Entry{
		{Hostname: "gpu1", Text: "(gpu1) all quiet\n", LastUpdated: base},
		{Hostname: "gpu2", Text: "\x1b[31m(gpu2) timeout\x1b[0m\n", LastUpdated: base.Add(time.Second)},
	}
}

func TestRenderWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	r, err := New(path, 10*time.Second, logger.Noop())
	require.NoError(t, err)

	require.NoError(t, r.Render(testSnapshot()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "(gpu1) all quiet")
	assert.Contains(t, string(content), "(gpu2) timeout")
	assert.Contains(t, string(content), "<!DOCTYPE html>")
	assert.Contains(t, string(content), `content="10"`)
}

func TestRenderIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	r, err := New(path, 10*time.Second, logger.Noop())
	require.NoError(t, err)

	snap := testSnapshot()

	require.NoError(t, r.Render(snap))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, r.Render(snap))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderReflectsLatestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	r, err := New(path, 10*time.Second, logger.Noop())
	require.NoError(t, err)

	table := status.NewTable()
	table.Init("gpu1", "(gpu1) loading\n")
	require.NoError(t, r.Render(table.Snapshot()))

	table.Set("gpu1", "(gpu1) A\n")
	require.NoError(t, r.Render(table.Snapshot()))

	table.Set("gpu1", "(gpu1) B\n")
	require.NoError(t, r.Render(table.Snapshot()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "(gpu1) B")
	assert.NotContains(t, string(content), "(gpu1) A")
	assert.NotContains(t, string(content), "loading")
}

func TestRenderSkipsEmptyEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	r, err := New(path, time.Second, logger.Noop())
	require.NoError(t, err)

	snap := []status.Entry{
		{Hostname: "gpu1", Text: ""},
		{Hostname: "gpu2", Text: "(gpu2) fine\n", LastUpdated: time.Now()},
	}
	require.NoError(t, r.Render(snap))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "(gpu2) fine")
}

func TestRenderNoFileOutput(t *testing.T) {
	r, err := New("", time.Second, logger.Noop())
	require.NoError(t, err)

	require.NoError(t, r.Render(testSnapshot()))
	assert.NotNil(t, r.Latest())
	assert.Contains(t, string(r.Latest()), "(gpu1) all quiet")
}

func TestRenderLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")
	r, err := New(path, time.Second, logger.Noop())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Render(testSnapshot()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.html", entries[0].Name())
}

func TestConcurrentRendersNeverInterleave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")
	r, err := New(path, time.Second, logger.Noop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Render(testSnapshot()))
		}()
	}
	wg.Wait()

	// Concurrent readers of the output path must always see a complete
	// document; with atomic rename the final file is one full render.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "</html>")
	assert.Equal(t, uint64(8), r.Count())
}

func TestRenderFailsOnMissingDirectory(t *testing.T) {
	r, err := New("/nonexistent-dir-for-test/out.html", time.Second, logger.Noop())
	require.NoError(t, err)
	assert.Error(t, r.Render(testSnapshot()))
}
