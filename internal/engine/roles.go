package engine

import "rbac-demo/internal/domain"

// RolePatch carries the updatable role fields; nil means leave the field
// unchanged. A non-nil PrivilegeIDs replaces the whole bundle.
type RolePatch struct {
	Name         *string
	Description  *string
	PrivilegeIDs *[]string
}

// AddRole inserts a new role and returns its generated id. The ID field
// of r is ignored; the privilege bundle is deduplicated and restricted to
// privileges that currently exist.
func (e *Engine) AddRole(r domain.Role) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r.Name == "" {
		return "", domain.ErrValidation("role name is required")
	}
	r.ID = domain.NewID()
	r.PrivilegeIDs = normalizeRefs(r.PrivilegeIDs, func(id string) bool {
		return e.privilegeIndex(id) >= 0
	})
	e.roles = append(e.roles, r)
	e.persist()
	return r.ID, nil
}

// UpdateRole merges patch into the role with the given id; false when the
// id is absent.
func (e *Engine) UpdateRole(id string, patch RolePatch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.roleIndex(id)
	if i < 0 {
		return false
	}
	if patch.Name != nil {
		e.roles[i].Name = *patch.Name
	}
	if patch.Description != nil {
		e.roles[i].Description = *patch.Description
	}
	if patch.PrivilegeIDs != nil {
		e.roles[i].PrivilegeIDs = normalizeRefs(*patch.PrivilegeIDs, func(id string) bool {
			return e.privilegeIndex(id) >= 0
		})
	}
	e.persist()
	return true
}

// DeleteRole removes the role with the given id. The delete is refused
// while any group grants the role or any user holds it directly; like
// privileges, roles are structural entities and must be explicitly
// detached everywhere before removal.
func (e *Engine) DeleteRole(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.roleIndex(id)
	if i < 0 {
		return false
	}
	for _, g := range e.groups {
		if contains(g.RoleIDs, id) {
			return false
		}
	}
	for _, u := range e.users {
		if contains(u.DirectRoleIDs, id) {
			return false
		}
	}
	e.roles = append(e.roles[:i], e.roles[i+1:]...)
	e.persist()
	return true
}

// GetRole returns the role with the given id.
func (e *Engine) GetRole(id string) (domain.Role, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.roleIndex(id)
	if i < 0 {
		return domain.Role{}, false
	}
	r := e.roles[i]
	r.PrivilegeIDs = append([]string(nil), r.PrivilegeIDs...)
	return r, true
}

// ListRoles returns all roles in insertion order.
func (e *Engine) ListRoles() []domain.Role {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Role, len(e.roles))
	for i, r := range e.roles {
		r.PrivilegeIDs = append([]string(nil), r.PrivilegeIDs...)
		out[i] = r
	}
	return out
}
