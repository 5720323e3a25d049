package engine

import "rbac-demo/internal/domain"

// GroupPatch carries the updatable group fields; nil means leave the
// field unchanged. Non-nil id lists replace the existing lists.
type GroupPatch struct {
	Name        *string
	Description *string
	RoleIDs     *[]string
	MemberIDs   *[]string
}

// AddGroup inserts a new group and returns its generated id. The ID field
// of g is ignored; role and member lists are deduplicated and restricted
// to entities that currently exist, and each listed member gains the
// matching back-reference.
func (e *Engine) AddGroup(g domain.Group) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if g.Name == "" {
		return "", domain.ErrValidation("group name is required")
	}
	g.ID = domain.NewID()
	g.RoleIDs = normalizeRefs(g.RoleIDs, func(id string) bool {
		return e.roleIndex(id) >= 0
	})
	g.MemberIDs = normalizeRefs(g.MemberIDs, func(id string) bool {
		return e.userIndex(id) >= 0
	})
	e.groups = append(e.groups, g)
	for _, uid := range g.MemberIDs {
		e.linkUserToGroup(uid, g.ID)
	}
	e.persist()
	return g.ID, nil
}

// UpdateGroup merges patch into the group with the given id; false when
// the id is absent. A replaced member list keeps both sides of the
// membership relation in sync.
func (e *Engine) UpdateGroup(id string, patch GroupPatch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.groupIndex(id)
	if i < 0 {
		return false
	}
	if patch.Name != nil {
		e.groups[i].Name = *patch.Name
	}
	if patch.Description != nil {
		e.groups[i].Description = *patch.Description
	}
	if patch.RoleIDs != nil {
		e.groups[i].RoleIDs = normalizeRefs(*patch.RoleIDs, func(id string) bool {
			return e.roleIndex(id) >= 0
		})
	}
	if patch.MemberIDs != nil {
		next := normalizeRefs(*patch.MemberIDs, func(id string) bool {
			return e.userIndex(id) >= 0
		})
		for _, uid := range e.groups[i].MemberIDs {
			if !contains(next, uid) {
				e.unlinkUserFromGroup(uid, id)
			}
		}
		for _, uid := range next {
			e.linkUserToGroup(uid, id)
		}
		e.groups[i].MemberIDs = next
	}
	e.persist()
	return true
}

// DeleteGroup removes the group with the given id. Groups are population
// entities: the delete always succeeds, and the group id is scrubbed from
// every user's group list in the same operation.
func (e *Engine) DeleteGroup(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.groupIndex(id)
	if i < 0 {
		return false
	}
	e.groups = append(e.groups[:i], e.groups[i+1:]...)
	for j := range e.users {
		if contains(e.users[j].GroupIDs, id) {
			e.users[j].GroupIDs = without(e.users[j].GroupIDs, id)
		}
	}
	e.persist()
	return true
}

// GetGroup returns the group with the given id.
func (e *Engine) GetGroup(id string) (domain.Group, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.groupIndex(id)
	if i < 0 {
		return domain.Group{}, false
	}
	g := e.groups[i]
	g.RoleIDs = append([]string(nil), g.RoleIDs...)
	g.MemberIDs = append([]string(nil), g.MemberIDs...)
	return g, true
}

// ListGroups returns all groups in insertion order.
func (e *Engine) ListGroups() []domain.Group {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Group, len(e.groups))
	for i, g := range e.groups {
		g.RoleIDs = append([]string(nil), g.RoleIDs...)
		g.MemberIDs = append([]string(nil), g.MemberIDs...)
		out[i] = g
	}
	return out
}

// linkUserToGroup adds gid to the user's group list if absent. Caller
// holds e.mu and has verified the user exists.
func (e *Engine) linkUserToGroup(uid, gid string) {
	j := e.userIndex(uid)
	if j < 0 {
		return
	}
	if !contains(e.users[j].GroupIDs, gid) {
		e.users[j].GroupIDs = append(e.users[j].GroupIDs, gid)
	}
}

// unlinkUserFromGroup removes gid from the user's group list.
func (e *Engine) unlinkUserFromGroup(uid, gid string) {
	j := e.userIndex(uid)
	if j < 0 {
		return
	}
	e.users[j].GroupIDs = without(e.users[j].GroupIDs, gid)
}
