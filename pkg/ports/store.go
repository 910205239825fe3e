package ports

import (
	"context"
	"time"

	"github.com/aretw0/travspan/pkg/domain"
)

// SnapshotStore persists run snapshots.
// Snapshots are views for listing and inspection; a run cannot be resumed from one.
type SnapshotStore interface {
	// Save persists the snapshot for a given run ID, replacing any previous one.
	Save(ctx context.Context, runID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given run ID.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of all stored runs.
	List(ctx context.Context) ([]string, error)
}

// UnlockFunc releases a lock obtained from a RunLocker.
type UnlockFunc func(ctx context.Context) error

// RunLocker serializes access to a run across processes sharing a SnapshotStore.
type RunLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The lock expires after ttl if it is never released.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
