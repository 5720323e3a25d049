package domain

import "context"

// SnapshotStore mirrors the access model to durable storage. The engine
// writes the full snapshot after every successful mutation and restores
// it at startup; in-memory state stays the source of truth, so Save
// failures are surfaced to the caller as diagnostics only.
type SnapshotStore interface {
	// Load returns the stored snapshot, or (nil, nil) when no snapshot
	// has been written yet.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Close() error
}
