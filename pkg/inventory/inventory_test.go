package inventory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMapping(t *testing.T, path string, mapping map[string]string) {
	t.Helper()
	data, err := json.Marshal(mapping)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestFileClientResolvesKnownInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	writeMapping(t, path, map[string]string{"ocid1.instance.oc1..aaa": "GPU-332"})

	c := NewFileClient(path)
	host, err := c.ResolveHost(context.Background(), "ocid1.instance.oc1..aaa")
	require.NoError(t, err)
	assert.Equal(t, "GPU-332", host)
}

func TestFileClientUnknownInstanceReturnsNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	writeMapping(t, path, map[string]string{})

	c := NewFileClient(path)
	_, err := c.ResolveHost(context.Background(), "ocid1.instance.oc1..missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileClientReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	writeMapping(t, path, map[string]string{"a": "GPU-1"})

	c := NewFileClient(path)
	host, err := c.ResolveHost(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "GPU-1", host)

	// ensure distinct mtime on filesystems with coarse resolution
	time.Sleep(10 * time.Millisecond)
	writeMapping(t, path, map[string]string{"a": "GPU-2"})

	host, err = c.ResolveHost(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "GPU-2", host)
}
