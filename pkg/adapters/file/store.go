package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/dagview/pkg/domain"
)

const ext = ".json"

// Store implements ports.SnapshotStore on the local filesystem, one JSON
// file per view. It lets a single replica keep its views across restarts
// without Redis.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath.
// If basePath is empty, it defaults to ".dagview/views".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".dagview", "views")
	}
	return &Store{BasePath: basePath}
}

// View IDs are path-escaped so any ID maps to a single file name.
func (s *Store) path(viewID string) string {
	return filepath.Join(s.BasePath, url.PathEscape(viewID)+ext)
}

// Save writes the snapshot atomically: a temp file in the same directory is
// synced and renamed over the destination.
func (s *Store) Save(ctx context.Context, viewID string, snapshot domain.Snapshot) error {
	if viewID == "" {
		return fmt.Errorf("%w: empty view id", domain.ErrInvalidPayload)
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure view directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, "tmp-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(viewID)); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}
	return nil
}

// Load reads the view's snapshot.
func (s *Store) Load(ctx context.Context, viewID string) (domain.Snapshot, error) {
	data, err := os.ReadFile(s.path(viewID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Snapshot{}, domain.ErrViewNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap.Normalize(), nil
}

// Delete removes the view file. Deleting an unknown view is not an error.
func (s *Store) Delete(ctx context.Context, viewID string) error {
	err := os.Remove(s.path(viewID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}

// List returns the stored view IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	views := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		views = append(views, id)
	}
	sort.Strings(views)
	return views, nil
}
