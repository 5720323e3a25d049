package engine

import "rbac-demo/internal/domain"

// Derivation queries. Each call recomputes from live collection state:
// the collections are small and mutations infrequent, so a two-hop
// reachability walk per query beats maintaining an incremental index.
// Dangling references are dropped rather than surfaced; a derivation
// query never fails.

// UserRoles returns the deduplicated set of roles the user effectively
// holds: every role granted by a group the user belongs to, unioned with
// the user's direct roles. An unknown userID yields an empty set. Result
// order is unspecified.
func (e *Engine) UserRoles(userID string) []domain.Role {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userRolesLocked(userID)
}

func (e *Engine) userRolesLocked(userID string) []domain.Role {
	ui := e.userIndex(userID)
	if ui < 0 {
		return nil
	}
	u := e.users[ui]

	seen := make(map[string]struct{})
	var out []domain.Role

	collect := func(roleID string) {
		if _, dup := seen[roleID]; dup {
			return
		}
		seen[roleID] = struct{}{}
		if ri := e.roleIndex(roleID); ri >= 0 {
			r := e.roles[ri]
			r.PrivilegeIDs = append([]string(nil), r.PrivilegeIDs...)
			out = append(out, r)
		}
	}

	for _, gid := range u.GroupIDs {
		gi := e.groupIndex(gid)
		if gi < 0 {
			continue
		}
		for _, rid := range e.groups[gi].RoleIDs {
			collect(rid)
		}
	}
	for _, rid := range u.DirectRoleIDs {
		collect(rid)
	}
	return out
}

// UserPrivileges returns the deduplicated set of privileges reachable
// from the user via all of its effective roles. An unknown userID yields
// an empty set. Result order is unspecified.
func (e *Engine) UserPrivileges(userID string) []domain.Privilege {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userPrivilegesLocked(userID)
}

func (e *Engine) userPrivilegesLocked(userID string) []domain.Privilege {
	seen := make(map[string]struct{})
	var out []domain.Privilege
	for _, r := range e.userRolesLocked(userID) {
		for _, pid := range r.PrivilegeIDs {
			if _, dup := seen[pid]; dup {
				continue
			}
			seen[pid] = struct{}{}
			if pi := e.privilegeIndex(pid); pi >= 0 {
				out = append(out, e.privileges[pi])
			}
		}
	}
	return out
}

// HasPrivilege reports whether the user effectively holds a privilege
// with the given key. Unknown user or unknown key both yield false.
func (e *Engine) HasPrivilege(userID, privilegeKey string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.userPrivilegesLocked(userID) {
		if p.Key == privilegeKey {
			return true
		}
	}
	return false
}
