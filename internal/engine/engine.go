// Package engine implements the access model: four entity collections
// (privileges, roles, groups, users) with CRUD, relationship assignment,
// and query-time privilege derivation, mirrored to a snapshot store after
// every successful mutation.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"rbac-demo/internal/domain"
)

// Engine owns the four collections. A single mutex serializes every
// operation, so cross-collection effects (cascading de-reference, two-sided
// membership updates) are never observed half-applied.
type Engine struct {
	mu         sync.Mutex
	users      []domain.User
	roles      []domain.Role
	privileges []domain.Privilege
	groups     []domain.Group

	store  domain.SnapshotStore
	logger *slog.Logger
}

// New creates an Engine initialised from snap. A nil snap starts empty.
// A nil store disables persistence; a nil logger discards diagnostics.
func New(snap *domain.Snapshot, store domain.SnapshotStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{store: store, logger: logger}
	if snap != nil {
		snap = snap.Clone()
		e.users = snap.Users
		e.roles = snap.Roles
		e.privileges = snap.Privileges
		e.groups = snap.Groups
	}
	return e
}

// Snapshot returns a deep copy of the current state of all four
// collections, in insertion order.
func (e *Engine) Snapshot() *domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() *domain.Snapshot {
	snap := &domain.Snapshot{
		Users:      e.users,
		Roles:      e.roles,
		Privileges: e.privileges,
		Groups:     e.groups,
	}
	return snap.Clone()
}

// persist mirrors the current state to the snapshot store. Called with
// e.mu held, after every successful mutation. Failures are logged and
// swallowed: in-memory state remains the source of truth for the session.
func (e *Engine) persist() {
	if e.store == nil {
		return
	}
	if err := e.store.Save(context.Background(), e.snapshotLocked()); err != nil {
		e.logger.Warn("snapshot save failed", "error", err)
	}
}

// Lookup helpers. All operate on live collection state with e.mu held.

func (e *Engine) userIndex(id string) int {
	for i := range e.users {
		if e.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) roleIndex(id string) int {
	for i := range e.roles {
		if e.roles[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) privilegeIndex(id string) int {
	for i := range e.privileges {
		if e.privileges[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) groupIndex(id string) int {
	for i := range e.groups {
		if e.groups[i].ID == id {
			return i
		}
	}
	return -1
}

// normalizeRefs deduplicates a reference list (preserving first-seen
// order) and drops ids that do not resolve against live state, keeping
// the no-duplicates and referential-integrity invariants on writes that
// carry whole reference lists.
func normalizeRefs(ids []string, exists func(string) bool) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		if !exists(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// contains reports whether id is present in ids.
func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// without returns ids with every occurrence of id removed. The original
// slice is left untouched.
func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
