// Package inventory declares the inventory collaborator contract
// (spec.md §6) and a concrete file-backed client. The production inventory
// system in this corpus is a flat, operator-maintained mapping file (no
// CMDB client exists anywhere in the retrieved example pack — see
// DESIGN.md), so the concrete client reads a JSON document from disk.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ErrNotFound is returned when an instance id has no known hostname.
var ErrNotFound = fmt.Errorf("inventory: instance not found")

// Client is the abstract inventory collaborator: a single read mapping
// instance_id to hostname (spec.md §6).
type Client interface {
	ResolveHost(ctx context.Context, instanceID string) (string, error)
}

// FileClient resolves instance_id → hostname from a JSON document of the
// shape {"instance_id": "hostname", ...}, reloaded lazily when the file's
// modification time changes so a long-running loop pass picks up edits
// without a restart.
type FileClient struct {
	path string

	mu      sync.Mutex
	mapping map[string]string
	modTime int64
}

// NewFileClient builds a client reading the mapping at path.
func NewFileClient(path string) *FileClient {
	return &FileClient{path: path}
}

// ResolveHost returns the hostname mapped to instanceID, or ErrNotFound.
func (c *FileClient) ResolveHost(ctx context.Context, instanceID string) (string, error) {
	if err := c.reloadIfChanged(); err != nil {
		return "", fmt.Errorf("inventory: load %s: %w", c.path, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	host, ok := c.mapping[instanceID]
	if !ok {
		return "", ErrNotFound
	}
	return host, nil
}

func (c *FileClient) reloadIfChanged() error {
	info, err := os.Stat(c.path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	unchanged := c.mapping != nil && info.ModTime().UnixNano() == c.modTime
	c.mu.Unlock()
	if unchanged {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	c.mu.Lock()
	c.mapping = mapping
	c.modTime = info.ModTime().UnixNano()
	c.mu.Unlock()
	return nil
}
