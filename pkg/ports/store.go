package ports

import (
	"context"

	"github.com/aretw0/dagview/pkg/domain"
)

// SnapshotStore persists the latest topology snapshot per view, so a page
// mounting later gets the current diagram immediately.
type SnapshotStore interface {
	// Save replaces the snapshot for the view.
	Save(ctx context.Context, viewID string, snapshot domain.Snapshot) error

	// Load retrieves the snapshot for the view.
	// Returns domain.ErrViewNotFound if nothing was saved.
	Load(ctx context.Context, viewID string) (domain.Snapshot, error)

	// Delete removes the view.
	Delete(ctx context.Context, viewID string) error

	// List returns the known view IDs.
	List(ctx context.Context) ([]string, error)
}
