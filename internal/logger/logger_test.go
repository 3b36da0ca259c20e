package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	return &buf
}

func TestSetVerbose(t *testing.T) {
	reset(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebugAndInfo_VerboseOnly(t *testing.T) {
	buf := reset(t)

	SetVerbose(false)
	Debug("indexing %s", "report.txt")
	Info("segments: %d", 3)
	assert.Zero(t, buf.Len())

	SetVerbose(true)
	Debug("indexing %s", "report.txt")
	Info("segments: %d", 3)
	assert.Equal(t, "[DEBUG] indexing report.txt\n[INFO] segments: 3\n", buf.String())
}

func TestWarn_AlwaysPrints(t *testing.T) {
	buf := reset(t)

	SetVerbose(false)
	Warn("embedding backend unavailable")

	assert.Equal(t, "[WARN] embedding backend unavailable\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := reset(t)

	SetVerbose(true)
	Section("Rebuild")

	assert.Equal(t, "\n=== Rebuild ===\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	reset(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
