package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkAppendsNDJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "events.jsonl")

	sink, err := NewFileSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Append(Record{Phase: "drain", Action: "requested", Host: "GPU-332"}))
	require.NoError(t, sink.Append(Record{Phase: "drain", Action: "drained_empty", Host: "GPU-332"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []map[string]any
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "drain", lines[0]["phase"])
	assert.Equal(t, "requested", lines[0]["action"])
	assert.Equal(t, "GPU-332", lines[0]["host"])
	assert.Contains(t, lines[0], "ts")
}

func TestFileSinkConcurrentAppendsDoNotInterleave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	sink, err := NewFileSink(path)
	require.NoError(t, err)
	defer sink.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = sink.Append(Record{Phase: "drain", Action: "requested", Host: "H"})
		}(i)
	}
	wg.Wait()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m), "line must be valid, unbroken JSON")
		count++
	}
	assert.Equal(t, 50, count)
}

func TestMemorySinkPreservesPerHostOrder(t *testing.T) {
	sink := NewMemorySink()
	require.NoError(t, sink.Append(Record{Phase: "drain", Action: "requested", Host: "A"}))
	require.NoError(t, sink.Append(Record{Phase: "drain", Action: "requested", Host: "B"}))
	require.NoError(t, sink.Append(Record{Phase: "drain", Action: "drained_empty", Host: "A"}))

	assert.Equal(t, []string{"drain/requested", "drain/drained_empty"}, sink.Actions("A"))
	assert.Equal(t, []string{"drain/requested"}, sink.Actions("B"))
}
